package auth

import (
	"errors"
	"net/http"
	"strings"

	"bookcatalog/internal/httpx"

	"github.com/sirupsen/logrus"
)

type HTTPHandler struct {
	service *Service
	logger  logrus.FieldLogger
}

func NewHTTPHandler(service *Service, logger logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// LoginReq accepts username as an alias of email.
type LoginReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LoginCheck handles POST /api/login_check
func (h *HTTPHandler) LoginCheck(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := httpx.DecodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid JSON data")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}
	if email == "" || req.Password == "" {
		writeFailure(w, http.StatusBadRequest, `The keys "email" and "password" must be provided.`)
		return
	}

	token, err := h.service.Login(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeFailure(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		h.logger.WithError(err).WithField("request_id", httpx.RequestIDFrom(r)).Error("login check")
		writeFailure(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MediaTypeJSON, map[string]string{"token": token})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	httpx.WriteJSON(w, status, httpx.MediaTypeJSON, failure{Code: status, Message: message})
}
