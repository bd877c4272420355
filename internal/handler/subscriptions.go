package handler

import (
	"errors"
	"net/http"

	"github.com/newsletter/newsletter/internal/domain"
	"github.com/newsletter/newsletter/internal/logger"
)

// Subscribe handles POST /subscriptions with a form-urlencoded body carrying
// name and email. Every response has an empty body: 200 when the subscriber
// was stored and emailed, 400 for bad input and 500 for anything else.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)

	if err := r.ParseForm(); err != nil {
		log.Debug().Err(err).Msg("unparsable subscription form")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	name, okName := formValue(r, "name")
	address, okEmail := formValue(r, "email")
	if !okName || !okEmail {
		log.Debug().Bool("has_name", okName).Bool("has_email", okEmail).Msg("subscription form is missing a field")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err := h.subsSvc.Register(r.Context(), name, address)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, domain.ErrValidation):
		w.WriteHeader(http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("subscription failed")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// formValue returns the first body value for key and whether it was present
func formValue(r *http.Request, key string) (string, bool) {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}
