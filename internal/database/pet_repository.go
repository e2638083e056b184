package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// petRepository is the sqlx-backed PetRepository. Ability slots are
// stored as a "a,b,c" string column (ability_ids) since they're never
// queried on individually, only ever read back whole at creature-entry
// time.
type petRepository struct {
	db *DB
}

// NewPetRepository creates a new pet repository.
func NewPetRepository(db *DB) PetRepository {
	return &petRepository{db: db}
}

type petRow struct {
	ID         string `db:"id"`
	OwnerID    string `db:"owner_id"`
	Nickname   string `db:"nickname"`
	SpeciesID  int    `db:"species_id"`
	Breed      int    `db:"breed"`
	Rarity     int    `db:"rarity"`
	Level      int    `db:"level"`
	AbilityIDs string `db:"ability_ids"`
	CreatedAt  sql.NullTime `db:"created_at"`
	UpdatedAt  sql.NullTime `db:"updated_at"`
}

func (r petRow) toRecord() *PetRecord {
	rec := &PetRecord{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Nickname:  r.Nickname,
		SpeciesID: r.SpeciesID,
		Breed:     r.Breed,
		Rarity:    r.Rarity,
		Level:     r.Level,
	}
	if r.CreatedAt.Valid {
		rec.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		rec.UpdatedAt = r.UpdatedAt.Time
	}
	for i, s := range strings.SplitN(r.AbilityIDs, ",", 3) {
		if i >= 3 {
			break
		}
		if v, err := strconv.Atoi(s); err == nil {
			rec.AbilityIDs[i] = v
		}
	}
	return rec
}

func encodeAbilityIDs(ids [3]int) string {
	return fmt.Sprintf("%d,%d,%d", ids[0], ids[1], ids[2])
}

func (r *petRepository) Create(ctx context.Context, pet *PetRecord) error {
	if pet.ID == "" {
		pet.ID = uuid.New().String()
	}
	query := r.db.Rebind(`
		INSERT INTO pets (id, owner_id, nickname, species_id, breed, rarity, level, ability_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	_, err := r.db.ExecContext(ctx, query, pet.ID, pet.OwnerID, pet.Nickname, pet.SpeciesID, pet.Breed, pet.Rarity, pet.Level, encodeAbilityIDs(pet.AbilityIDs))
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*PetRecord, error) {
	query := r.db.Rebind(`
		SELECT id, owner_id, nickname, species_id, breed, rarity, level, ability_ids, created_at, updated_at
		FROM pets WHERE id = ?
	`)
	var row petRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("pet not found")
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return row.toRecord(), nil
}

func (r *petRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*PetRecord, error) {
	query := r.db.Rebind(`
		SELECT id, owner_id, nickname, species_id, breed, rarity, level, ability_ids, created_at, updated_at
		FROM pets WHERE owner_id = ? ORDER BY created_at
	`)
	var rows []petRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	out := make([]*PetRecord, len(rows))
	for i, row := range rows {
		out[i] = row.toRecord()
	}
	return out, nil
}

func (r *petRepository) Update(ctx context.Context, pet *PetRecord) error {
	query := r.db.Rebind(`
		UPDATE pets SET nickname = ?, species_id = ?, breed = ?, rarity = ?, level = ?, ability_ids = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, pet.Nickname, pet.SpeciesID, pet.Breed, pet.Rarity, pet.Level, encodeAbilityIDs(pet.AbilityIDs), pet.ID)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("pet not found")
	}
	return nil
}

func (r *petRepository) Delete(ctx context.Context, id string) error {
	query := r.db.Rebind(`DELETE FROM pets WHERE id = ?`)
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return nil
}

func (r *petRepository) List(ctx context.Context, offset, limit int) ([]*PetRecord, error) {
	query := r.db.Rebind(`
		SELECT id, owner_id, nickname, species_id, breed, rarity, level, ability_ids, created_at, updated_at
		FROM pets ORDER BY created_at LIMIT ? OFFSET ?
	`)
	var rows []petRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	out := make([]*PetRecord, len(rows))
	for i, row := range rows {
		out[i] = row.toRecord()
	}
	return out, nil
}
