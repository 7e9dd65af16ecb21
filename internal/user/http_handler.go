package user

import (
	"errors"
	"net/http"
	"strings"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/metrics"

	"github.com/sirupsen/logrus"
)

type HTTPHandler struct {
	service *Service
	logger  logrus.FieldLogger
}

func NewHTTPHandler(service *Service, logger logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

type registerReq struct {
	Email    string `json:"email" validate:"required,email,max=180"`
	Password string `json:"password" validate:"required"`
}

type registerResp struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Register handles POST /api/registration
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := httpx.DecodeBody(r, &req); err != nil {
		metrics.RecordRegistration("invalid_json")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON data"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if violations := httpx.ValidateStruct(req); len(violations) > 0 {
		metrics.RecordRegistration("invalid")
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": httpx.ViolationMap(violations)})
		return
	}

	u, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			metrics.RecordRegistration("conflict")
			writeJSON(w, http.StatusConflict, map[string]string{"description": "Email already exists."})
			return
		}
		metrics.RecordRegistration("error")
		h.logger.WithError(err).WithField("request_id", httpx.RequestIDFrom(r)).Error("register user")
		httpx.JSONError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	metrics.RecordRegistration("created")
	h.logger.WithField("user_id", u.ID).Info("user registered")
	writeJSON(w, http.StatusCreated, registerResp{ID: u.ID, Email: u.Email})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	httpx.WriteJSON(w, status, httpx.MediaTypeJSON, v)
}
