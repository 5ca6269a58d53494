package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/service"
	"github.com/petcarehq/petcare/internal/transport/http/middleware"
	"github.com/petcarehq/petcare/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) CreateVet(w http.ResponseWriter, r *http.Request) {
	var input service.CreateVetInput
	if err := decodeJSON(r, &input); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	if errs := validator.ValidateCreateVet(input.FullName, input.Email, input.Password); errs.HasErrors() {
		writeValidationProblem(w, errs)
		return
	}

	user, err := h.userService.CreateVet(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			writeProblem(w, http.StatusConflict, "Email already in use", "An account with this email already exists.")
		} else {
			log.Printf("ERROR create vet: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, service.VetListItem{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	})
}

func (h *UserHandler) ListVets(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagingParams(r)

	result, err := h.userService.ListVets(r.Context(), r.URL.Query().Get("search"), page, pageSize)
	if err != nil {
		log.Printf("ERROR list vets: %v", err)
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *UserHandler) GetVet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No vet with this id.")
		return
	}

	vet, err := h.userService.GetVet(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeProblem(w, http.StatusNotFound, "Not found", "No vet with this id.")
		} else {
			log.Printf("ERROR get vet: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, vet)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagingParams(r)
	q := r.URL.Query()

	result, err := h.userService.ListUsers(r.Context(), q.Get("role"), q.Get("search"), page, pageSize)
	if err != nil {
		log.Printf("ERROR list users: %v", err)
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No user with this id.")
		return
	}

	var input service.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	result, err := h.userService.UpdateUser(r.Context(), principal.UserID, targetID, input)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeProblem(w, http.StatusBadRequest, validationErr.Title, validationErr.Detail)
		case errors.Is(err, service.ErrUserNotFound):
			writeProblem(w, http.StatusNotFound, "Not found", "No user with this id.")
		case errors.Is(err, service.ErrEmailInUse):
			writeProblem(w, http.StatusConflict, "Email already in use", "Another account already uses this email.")
		default:
			log.Printf("ERROR update user: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateMe is self-service: any authenticated user may rename themselves.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Missing or invalid bearer token.")
		return
	}

	var input service.UpdateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	if errs := validator.ValidateProfile(input.FullName, input.PhoneNumber); errs.HasErrors() {
		writeValidationProblem(w, errs)
		return
	}

	result, err := h.userService.UpdateProfile(r.Context(), principal.UserID, input)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeProblem(w, http.StatusUnauthorized, "Unauthorized", "Unknown account.")
		} else {
			log.Printf("ERROR update profile: %v", err)
			writeInternal(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func pagingParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return page, pageSize
}
