package router

import (
	"context"

	"github.com/discfound/discfound-backend/internal/analytics/types"
)

type fakeWriter struct {
	inserted  []types.OpsEventRow
	insertErr error
}

func (f *fakeWriter) InsertOpsEvent(_ context.Context, row types.OpsEventRow) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, row)
	return nil
}
