package controllers

import (
	"math"
	"net/http"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	reportsvc "github.com/discfound/discfound-backend/internal/reports"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// AdminImportReport runs the migration reconciliation report. Expected row
// counts come from the legacy exports and default to zero when omitted.
func AdminImportReport(svc *reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}

		expectedProfiles, err := validators.ParseQueryInt(r, "expected_profiles", 0, 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expectedSources, err := validators.ParseQueryInt(r, "expected_sources", 0, 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expectedItems, err := validators.ParseQueryInt(r, "expected_items", 0, 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.Reconciliation(r.Context(), reportsvc.ExpectedTotals{
			Profiles: int64(expectedProfiles),
			Sources:  int64(expectedSources),
			Items:    int64(expectedItems),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}
