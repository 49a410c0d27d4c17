package controllers

import (
	"net/http"

	"github.com/discfound/discfound-backend/api/responses"
	"github.com/discfound/discfound-backend/api/validators"
	profilesvc "github.com/discfound/discfound-backend/internal/profiles"
	pkgerrors "github.com/discfound/discfound-backend/pkg/errors"
	"github.com/discfound/discfound-backend/pkg/logger"
	"github.com/discfound/discfound-backend/pkg/types"
)

// GetMyProfile returns the authenticated caller's profile.
func GetMyProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		profileID, err := parseProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// UpdateMyProfile applies partial edits to the caller's profile.
func UpdateMyProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		profileID, err := parseProfileID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpdateProfile(r.Context(), profileID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type updateProfileRequest struct {
	DisplayName *string             `json:"display_name,omitempty" validate:"omitempty,min=1,max=120"`
	PDGANumber  *string             `json:"pdga_number,omitempty" validate:"omitempty,max=16"`
	Social      *socialLinksRequest `json:"social,omitempty"`
	Phone       *string             `json:"phone,omitempty" validate:"omitempty,max=32"`
	AvatarURL   *string             `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type socialLinksRequest struct {
	Facebook  *string `json:"facebook,omitempty" validate:"omitempty,url"`
	Instagram *string `json:"instagram,omitempty" validate:"omitempty,url"`
	Twitter   *string `json:"twitter,omitempty" validate:"omitempty,url"`
	Website   *string `json:"website,omitempty" validate:"omitempty,url"`
}

func (r updateProfileRequest) toInput() profilesvc.UpdateProfileInput {
	input := profilesvc.UpdateProfileInput{
		DisplayName: r.DisplayName,
		PDGANumber:  r.PDGANumber,
		Phone:       r.Phone,
		AvatarURL:   r.AvatarURL,
	}
	if r.Social != nil {
		input.Social = &types.Social{
			Facebook:  r.Social.Facebook,
			Instagram: r.Social.Instagram,
			Twitter:   r.Social.Twitter,
			Website:   r.Social.Website,
		}
	}
	return input
}
