package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/petcarehq/petcare/internal/service"
	"github.com/petcarehq/petcare/internal/transport/http/middleware"
	"github.com/petcarehq/petcare/pkg/validator"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterOwner(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterOwnerInput
	if err := decodeJSON(r, &input); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	if errs := validator.ValidateRegisterOwner(input.FullName, input.Email, input.Password); errs.HasErrors() {
		writeValidationProblem(w, errs)
		return
	}

	if _, err := h.authService.RegisterOwner(r.Context(), input); err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			writeProblem(w, http.StatusConflict, "Email already in use", "An account with this email already exists.")
		} else {
			log.Printf("ERROR register owner: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Owner registered successfully."})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := decodeJSON(r, &input); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationProblem(w, errs)
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeProblem(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect.")
		case errors.Is(err, service.ErrAccountInactive):
			writeProblem(w, http.StatusForbidden, "Account inactive", "This account is not active. Contact support.")
		default:
			log.Printf("ERROR login: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Me returns the caller's identity and authoritative roles for frontend
// routing.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid bearer token.")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), principal)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Unknown account.")
		} else {
			log.Printf("ERROR get current user: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   user.ID,
		"fullName": user.FullName,
		"email":    user.Email,
		"roles":    user.Roles,
	})
}
