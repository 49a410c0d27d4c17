package controllers

import (
	"net/http"

	"github.com/discfound/discfound-backend/api/middleware"
	"github.com/discfound/discfound-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func MemberPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "member", "status": "ok"}
		if profile := middleware.ProfileIDFromContext(r.Context()); profile != "" {
			payload["profile_id"] = profile
		}
		responses.WriteSuccess(w, payload)
	}
}

func AdminPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "admin", "status": "ok"}
		if profile := middleware.ProfileIDFromContext(r.Context()); profile != "" {
			payload["profile_id"] = profile
		}
		responses.WriteSuccess(w, payload)
	}
}
