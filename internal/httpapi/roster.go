package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/battlepets/engine/internal/database"
	"github.com/battlepets/engine/pkg/errors"
	"github.com/battlepets/engine/pkg/validation"
)

// RosterHandlers wires a pet repository to gin route handlers. Kept
// separate from Handlers since roster persistence and live battle
// sessions have independent lifecycles: a pet survives across many
// sessions, a session never outlives the process.
type RosterHandlers struct {
	pets      database.PetRepository
	validator *validation.Validator
}

// NewRosterHandlers builds the roster route handlers over a pet
// repository.
func NewRosterHandlers(pets database.PetRepository) *RosterHandlers {
	return &RosterHandlers{pets: pets, validator: validation.New()}
}

// PetRecordResponse mirrors database.PetRecord over the wire.
type PetRecordResponse struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Nickname   string `json:"nickname"`
	SpeciesID  int    `json:"species_id"`
	Breed      int    `json:"breed"`
	Rarity     int    `json:"rarity"`
	Level      int    `json:"level"`
	AbilityIDs [3]int `json:"ability_ids"`
}

func petRecordResponse(p *database.PetRecord) PetRecordResponse {
	return PetRecordResponse{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Nickname:   p.Nickname,
		SpeciesID:  p.SpeciesID,
		Breed:      p.Breed,
		Rarity:     p.Rarity,
		Level:      p.Level,
		AbilityIDs: p.AbilityIDs,
	}
}

// CreatePet adds a pet to an owner's roster.
func (h *RosterHandlers) CreatePet(c *gin.Context) {
	ownerID := c.Param("ownerID")

	var req validation.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(err.Error()))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		c.Error(err)
		return
	}

	pet := &database.PetRecord{
		ID:        c.Query("id"),
		OwnerID:   ownerID,
		Nickname:  req.Nickname,
		SpeciesID: req.SpeciesID,
		Breed:     req.Breed,
		Rarity:    req.Rarity,
		Level:     req.Level,
	}
	if pet.ID == "" {
		c.Error(errors.NewBadRequestError("id query parameter is required"))
		return
	}

	if err := h.pets.Create(c.Request.Context(), pet); err != nil {
		c.Error(errors.NewInternalError("failed to create pet", err))
		return
	}

	c.JSON(http.StatusCreated, petRecordResponse(pet))
}

// ListRoster lists one owner's pets.
func (h *RosterHandlers) ListRoster(c *gin.Context) {
	pets, err := h.pets.GetByOwnerID(c.Request.Context(), c.Param("ownerID"))
	if err != nil {
		c.Error(errors.NewInternalError("failed to list pets", err))
		return
	}

	out := make([]PetRecordResponse, len(pets))
	for i, p := range pets {
		out[i] = petRecordResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"pets": out})
}

// GetPet reports a single pet by id.
func (h *RosterHandlers) GetPet(c *gin.Context) {
	pet, err := h.pets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(errors.NewNotFoundError("pet").WithCode(string(errors.ErrCodePetNotFound)))
		return
	}
	c.JSON(http.StatusOK, petRecordResponse(pet))
}

// RenamePet updates a pet's nickname.
func (h *RosterHandlers) RenamePet(c *gin.Context) {
	var req validation.RenamePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(err.Error()))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		c.Error(err)
		return
	}

	pet, err := h.pets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(errors.NewNotFoundError("pet").WithCode(string(errors.ErrCodePetNotFound)))
		return
	}

	pet.Nickname = req.Nickname
	if err := h.pets.Update(c.Request.Context(), pet); err != nil {
		c.Error(errors.NewInternalError("failed to update pet", err))
		return
	}

	c.JSON(http.StatusOK, petRecordResponse(pet))
}

// DeletePet removes a pet from its owner's roster.
func (h *RosterHandlers) DeletePet(c *gin.Context) {
	if err := h.pets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(errors.NewNotFoundError("pet").WithCode(string(errors.ErrCodePetNotFound)))
		return
	}
	c.Status(http.StatusNoContent)
}
