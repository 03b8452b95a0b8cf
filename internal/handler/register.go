package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gestevent/registration/internal/metrics"
	"github.com/gestevent/registration/internal/model"
)

// Registrar runs the registration pipeline for one request.
type Registrar interface {
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
}

// RegisterHandler is the HTTP boundary for POST /public_register.
type RegisterHandler struct {
	svc Registrar
}

// NewRegisterHandler constructs a RegisterHandler.
func NewRegisterHandler(svc Registrar) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// PublicRegister handles POST /public_register plus its CORS preflight.
// Any other method is a client error.
func (h *RegisterHandler) PublicRegister(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w, "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusBadRequest, "POST only", "post_only")
		return
	}

	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRejection(w, model.ErrInvalidJSON)
		metrics.Registrations.WithLabelValues(model.ErrInvalidJSON.Code).Inc()
		return
	}
	req.ClientIP = clientIP(r, req.ClientIP)

	participantID, err := h.svc.Register(r.Context(), req)
	if err != nil {
		var rej *model.RegistrationError
		if errors.As(err, &rej) {
			metrics.Registrations.WithLabelValues(rej.Code).Inc()
			writeRejection(w, rej)
			return
		}
		metrics.Registrations.WithLabelValues("internal_error").Inc()
		writeError(w, http.StatusInternalServerError, "registration failed", "internal_error")
		return
	}

	metrics.Registrations.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, model.RegisterResponse{ParticipantID: participantID})
}
