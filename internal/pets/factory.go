// Package pets implements the Pet Factory + Progression component: the
// deterministic stat derivation battles use at creature-entry time.
package pets

import "math"

// BreedAdjust is a breed's additive offset to the three base stats.
type BreedAdjust struct {
	HealthAdd int
	PowerAdd  int
	SpeedAdd  int
}

// SpeciesBase is the per-species base stat triple loaded from the
// progression tables.
type SpeciesBase struct {
	Health int
	Power  int
	Speed  int
}

// Record is an exact, parity-critical stat row for a (pet_id, breed,
// rarity) at level 25, as carried over unmodified from the legacy pet
// database for strict-mode lookups.
type Record struct {
	Health int
	Power  int
	Speed  int
}

// Database resolves species bases, breed adjustments, rarity quality,
// and exact level-25 records. Grounded on the shape of a read-only
// lookup repository: no mutation methods, every accessor returns
// (value, found).
type Database interface {
	SpeciesBase(speciesID int) (SpeciesBase, bool)
	BreedAdjust(breedID int) (BreedAdjust, bool)
	RarityQuality(rarity int) (float64, bool)
	ExactRecord(speciesID, breedID, rarity int) (Record, bool)
}

// Mode selects strict-vs-lax fallback behavior when an exact level-25
// record is missing.
type Mode int

const (
	// ModeLax falls back to the formula when no exact record exists.
	ModeLax Mode = iota
	// ModeStrict requires the exact record and errors otherwise — used
	// for parity runs against existing pet records.
	ModeStrict
)

// MissingRecordError reports a strict-mode lookup miss.
type MissingRecordError struct {
	SpeciesID, BreedID, Rarity int
}

func (e *MissingRecordError) Error() string {
	return "pets: no exact level-25 record for species/breed/rarity combination"
}

// Factory derives runtime stats from (pet_id, breed, rarity, level).
type Factory struct {
	db   Database
	mode Mode
}

// NewFactory builds a factory over a stat database in the given mode.
func NewFactory(db Database, mode Mode) *Factory {
	return &Factory{db: db, mode: mode}
}

// DerivedStats is the factory's output.
type DerivedStats struct {
	Health int
	Power  int
	Speed  int
}

// Derive computes spec §4.19's three formulas. The ×2 normalization on
// quality_raw is load-time behavior from the legacy pet database and
// must be preserved bit-exactly for parity with existing pet records —
// it is not a design choice made here, just carried forward.
func (f *Factory) Derive(speciesID, breedID, rarity, level int) (DerivedStats, error) {
	if level == 25 {
		if rec, ok := f.db.ExactRecord(speciesID, breedID, rarity); ok {
			return DerivedStats{Health: rec.Health, Power: rec.Power, Speed: rec.Speed}, nil
		}
		if f.mode == ModeStrict {
			return DerivedStats{}, &MissingRecordError{speciesID, breedID, rarity}
		}
	}

	base, ok := f.db.SpeciesBase(speciesID)
	if !ok {
		base = SpeciesBase{}
	}
	breed, ok := f.db.BreedAdjust(breedID)
	if !ok {
		breed = BreedAdjust{}
	}
	quality, ok := f.db.RarityQuality(rarity)
	if !ok {
		quality = 1.0
	}
	qualityNorm := quality * 2

	health := round(float64(base.Health+breed.HealthAdd)*5*float64(level)*qualityNorm) + 100
	power := round(float64(base.Power+breed.PowerAdd) * float64(level) * qualityNorm)
	speed := round(float64(base.Speed+breed.SpeedAdd) * float64(level) * qualityNorm)

	if power < 0 {
		power = 0
	}
	if speed < 1 {
		speed = 1
	}
	if health < 1 {
		health = 1
	}
	return DerivedStats{Health: health, Power: power, Speed: speed}, nil
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
