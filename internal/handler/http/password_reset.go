package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
)

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var body passwordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.RequestPasswordReset(ctx, body.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during reset request")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	// An unknown email produces the same response as a known one. The token
	// leaves the process only through the delivery channel, never in this
	// response body.
	_ = token

	utils.WriteJSON(w, messageResponse{Message: "if the account exists, a reset token has been issued"}, http.StatusOK)
}

func (h *Handler) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var body passwordResetConfirm
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ResetPassword(ctx, body.Token, body.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			log.Err(err).Msg("invalid or expired reset token")
			http.Error(w, "invalid or expired reset token", http.StatusBadRequest)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during password reset")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	utils.WriteJSON(w, messageResponse{Message: "password has been reset"}, http.StatusOK)
}
