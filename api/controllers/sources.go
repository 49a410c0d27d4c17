package controllers

import (
	"net/http"

	"github.com/discfound/discfound-backend/api/responses"
	sourcesvc "github.com/discfound/discfound-backend/internal/sources"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
)

// ListSources returns the active drop-off locations members can pick from.
func ListSources(svc sourcesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "source service unavailable"))
			return
		}

		sources, err := svc.ListSources(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sources)
	}
}
