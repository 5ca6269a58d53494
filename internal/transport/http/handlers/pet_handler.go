package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/petcarehq/petcare/internal/domain"
	"github.com/petcarehq/petcare/internal/service"
	"github.com/petcarehq/petcare/internal/transport/http/middleware"
	"github.com/petcarehq/petcare/pkg/validator"
)

type PetHandler struct {
	petService *service.PetService
}

func NewPetHandler(petService *service.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

type petRequest struct {
	Name         string   `json:"name"`
	Species      string   `json:"species"`
	Breed        string   `json:"breed"`
	DateOfBirth  string   `json:"dateOfBirth"` // YYYY-MM-DD or RFC 3339
	Color        string   `json:"color"`
	Weight       *float64 `json:"weight"`
	MedicalNotes string   `json:"medicalNotes"`
}

type createPetRequest struct {
	petRequest
	OwnerUserID string `json:"ownerUserId"`
}

type updatePetRequest struct {
	petRequest
	IsActive bool `json:"isActive"`
}

type assignPetRequest struct {
	PetID          string `json:"petId"`
	NewOwnerUserID string `json:"newOwnerUserId"`
}

type petResponse struct {
	domain.Pet
	AgeInYears *int `json:"ageInYears"`
}

type petWithOwnerResponse struct {
	petResponse
	OwnerFullName string `json:"ownerFullName"`
}

func toPetResponse(p domain.Pet) petResponse {
	return petResponse{Pet: p, AgeInYears: p.AgeInYears()}
}

func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	ownerID, err := uuid.Parse(req.OwnerUserID)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "ownerUserId must be a valid id.")
		return
	}

	input, ok := h.petInput(w, req.petRequest)
	if !ok {
		return
	}

	pet, err := h.petService.Create(r.Context(), service.CreatePetInput{
		PetInput:    input,
		OwnerUserID: ownerID,
	})
	if err != nil {
		h.writePetError(w, err, "create pet")
		return
	}

	writeJSON(w, http.StatusCreated, toPetResponse(*pet))
}

// List returns every pet with its owner's name joined in, admin only.
func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	pets, err := h.petService.ListAll(r.Context())
	if err != nil {
		log.Printf("ERROR list pets: %v", err)
		writeInternal(w)
		return
	}

	out := make([]petWithOwnerResponse, 0, len(pets))
	for _, p := range pets {
		out = append(out, petWithOwnerResponse{
			petResponse:   toPetResponse(p.Pet),
			OwnerFullName: p.OwnerFullName,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No pet with this id.")
		return
	}

	pet, err := h.petService.Get(r.Context(), principal, id)
	if err != nil {
		h.writePetError(w, err, "get pet")
		return
	}

	writeJSON(w, http.StatusOK, toPetResponse(*pet))
}

func (h *PetHandler) ListByOwner(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	ownerID, err := uuid.Parse(chi.URLParam(r, "ownerId"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No owner with this id.")
		return
	}

	pets, err := h.petService.ListByOwner(r.Context(), principal, ownerID)
	if err != nil {
		h.writePetError(w, err, "list pets by owner")
		return
	}

	writeJSON(w, http.StatusOK, toPetResponses(pets))
}

// MyPets lists the caller's own pets, whatever their role.
func (h *PetHandler) MyPets(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	pets, err := h.petService.ListByOwner(r.Context(), principal, principal.UserID)
	if err != nil {
		h.writePetError(w, err, "list my pets")
		return
	}

	writeJSON(w, http.StatusOK, toPetResponses(pets))
}

func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No pet with this id.")
		return
	}

	var req updatePetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	input, ok := h.petInput(w, req.petRequest)
	if !ok {
		return
	}

	pet, err := h.petService.Update(r.Context(), id, service.UpdatePetInput{
		PetInput: input,
		IsActive: req.IsActive,
	})
	if err != nil {
		h.writePetError(w, err, "update pet")
		return
	}

	writeJSON(w, http.StatusOK, toPetResponse(*pet))
}

func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No pet with this id.")
		return
	}

	if err := h.petService.Delete(r.Context(), id); err != nil {
		h.writePetError(w, err, "delete pet")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PetHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not found", "No pet with this id.")
		return
	}

	var req assignPetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON.")
		return
	}

	if req.PetID != "" && req.PetID != id.String() {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "Pet id in URL does not match pet id in request body.")
		return
	}

	ownerID, err := uuid.Parse(req.NewOwnerUserID)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "newOwnerUserId must be a valid id.")
		return
	}

	pet, err := h.petService.Assign(r.Context(), id, ownerID)
	if err != nil {
		h.writePetError(w, err, "assign pet")
		return
	}

	writeJSON(w, http.StatusOK, toPetResponse(*pet))
}

func (h *PetHandler) petInput(w http.ResponseWriter, req petRequest) (service.PetInput, bool) {
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "dateOfBirth must be YYYY-MM-DD or RFC 3339.")
		return service.PetInput{}, false
	}

	if errs := validator.ValidatePet(req.Name, req.Breed, req.Color, req.MedicalNotes, dob, req.Weight); errs.HasErrors() {
		writeValidationProblem(w, errs)
		return service.PetInput{}, false
	}
	if _, ok := domain.ParseSpecies(req.Species); !ok {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "Valid species is required.")
		return service.PetInput{}, false
	}

	return service.PetInput{
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		DateOfBirth:  dob,
		Color:        req.Color,
		Weight:       req.Weight,
		MedicalNotes: req.MedicalNotes,
	}, true
}

func (h *PetHandler) writePetError(w http.ResponseWriter, err error, op string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeProblem(w, http.StatusBadRequest, validationErr.Title, validationErr.Detail)
	case errors.Is(err, service.ErrPetNotFound):
		writeProblem(w, http.StatusNotFound, "Not found", "No pet with this id.")
	case errors.Is(err, service.ErrPetForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "You can only access your own pets.")
	case errors.Is(err, service.ErrOwnerNotFound):
		writeProblem(w, http.StatusBadRequest, "Validation failed", "Owner does not exist.")
	default:
		log.Printf("ERROR %s: %v", op, err)
		writeInternal(w)
	}
}

func toPetResponses(pets []domain.Pet) []petResponse {
	out := make([]petResponse, 0, len(pets))
	for _, p := range pets {
		out = append(out, toPetResponse(p))
	}
	return out
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
