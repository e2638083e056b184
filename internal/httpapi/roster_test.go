package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlepets/engine/internal/database"
	"github.com/battlepets/engine/internal/services"
)

// fakePetRepository is an in-memory stand-in for database.PetRepository,
// enough to exercise RosterHandlers without a real database connection.
type fakePetRepository struct {
	pets map[string]*database.PetRecord
}

func newFakePetRepository() *fakePetRepository {
	return &fakePetRepository{pets: map[string]*database.PetRecord{}}
}

func (f *fakePetRepository) Create(_ context.Context, pet *database.PetRecord) error {
	if _, exists := f.pets[pet.ID]; exists {
		return fmt.Errorf("pet %s already exists", pet.ID)
	}
	f.pets[pet.ID] = pet
	return nil
}

func (f *fakePetRepository) GetByID(_ context.Context, id string) (*database.PetRecord, error) {
	pet, ok := f.pets[id]
	if !ok {
		return nil, fmt.Errorf("pet %s not found", id)
	}
	return pet, nil
}

func (f *fakePetRepository) GetByOwnerID(_ context.Context, ownerID string) ([]*database.PetRecord, error) {
	var out []*database.PetRecord
	for _, pet := range f.pets {
		if pet.OwnerID == ownerID {
			out = append(out, pet)
		}
	}
	return out, nil
}

func (f *fakePetRepository) Update(_ context.Context, pet *database.PetRecord) error {
	if _, ok := f.pets[pet.ID]; !ok {
		return fmt.Errorf("pet %s not found", pet.ID)
	}
	f.pets[pet.ID] = pet
	return nil
}

func (f *fakePetRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.pets[id]; !ok {
		return fmt.Errorf("pet %s not found", id)
	}
	delete(f.pets, id)
	return nil
}

func (f *fakePetRepository) List(_ context.Context, offset, limit int) ([]*database.PetRecord, error) {
	var out []*database.PetRecord
	for _, pet := range f.pets {
		out = append(out, pet)
	}
	return out, nil
}

func newRosterTestRouter(repo database.PetRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(services.NewBattleService(), 50, repo)
}

func validCreatePetBody() validCreatePetRequest {
	return validCreatePetRequest{
		Nickname:  "Whiskers",
		SpeciesID: 1,
		Family:    "beast",
		Breed:     0,
		Rarity:    2,
		Level:     5,
	}
}

// validCreatePetRequest mirrors validation.CreatePetRequest's wire
// shape so tests don't need to import pkg/validation just to build a
// request body.
type validCreatePetRequest struct {
	Nickname  string `json:"nickname"`
	SpeciesID int    `json:"species_id"`
	Family    string `json:"family"`
	Breed     int    `json:"breed"`
	Rarity    int    `json:"rarity"`
	Level     int    `json:"level"`
}

func doRosterJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePet(t *testing.T) {
	r := newRosterTestRouter(newFakePetRepository())

	w := doRosterJSON(t, r, http.MethodPost, "/api/v1/owners/owner-1/pets?id=pet-1", validCreatePetBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created PetRecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "pet-1", created.ID)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.Equal(t, "Whiskers", created.Nickname)
}

func TestCreatePetRejectsInvalidNickname(t *testing.T) {
	r := newRosterTestRouter(newFakePetRepository())

	body := validCreatePetBody()
	body.Nickname = "x"
	w := doRosterJSON(t, r, http.MethodPost, "/api/v1/owners/owner-1/pets?id=pet-1", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePetRequiresIDQueryParam(t *testing.T) {
	r := newRosterTestRouter(newFakePetRepository())

	w := doRosterJSON(t, r, http.MethodPost, "/api/v1/owners/owner-1/pets", validCreatePetBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRoster(t *testing.T) {
	repo := newFakePetRepository()
	repo.pets["pet-1"] = &database.PetRecord{ID: "pet-1", OwnerID: "owner-1", Nickname: "Rex"}
	repo.pets["pet-2"] = &database.PetRecord{ID: "pet-2", OwnerID: "owner-2", Nickname: "Spot"}

	r := newRosterTestRouter(repo)
	w := doRosterJSON(t, r, http.MethodGet, "/api/v1/owners/owner-1/pets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Pets []PetRecordResponse `json:"pets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Pets, 1)
	assert.Equal(t, "pet-1", body.Pets[0].ID)
}

func TestGetPetNotFound(t *testing.T) {
	r := newRosterTestRouter(newFakePetRepository())
	w := doRosterJSON(t, r, http.MethodGet, "/api/v1/pets/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRenamePet(t *testing.T) {
	repo := newFakePetRepository()
	repo.pets["pet-1"] = &database.PetRecord{ID: "pet-1", OwnerID: "owner-1", Nickname: "Rex"}

	r := newRosterTestRouter(repo)
	w := doRosterJSON(t, r, http.MethodPatch, "/api/v1/pets/pet-1", map[string]string{"nickname": "Rexford"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated PetRecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Rexford", updated.Nickname)
}

func TestDeletePet(t *testing.T) {
	repo := newFakePetRepository()
	repo.pets["pet-1"] = &database.PetRecord{ID: "pet-1", OwnerID: "owner-1", Nickname: "Rex"}

	r := newRosterTestRouter(repo)
	w := doRosterJSON(t, r, http.MethodDelete, "/api/v1/pets/pet-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, ok := repo.pets["pet-1"]
	assert.False(t, ok)
}
