package http

import (
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (h *Handler) loginHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Error().Msg("no user id in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit := uint64(defaultHistoryLimit)
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.ParseUint(rawLimit, 10, 64)
		if err != nil || parsed == 0 {
			log.Error().Str("limit", rawLimit).Msg("invalid limit parameter")
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	entries, err := h.services.AuthService.LoginHistory(ctx, userID, limit)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during login history listing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, entries, http.StatusOK)
}
