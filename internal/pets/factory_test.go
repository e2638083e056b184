package pets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_DeriveFormula(t *testing.T) {
	db := NewMemStore()
	db.SetSpeciesBase(1, SpeciesBase{Health: 10, Power: 5, Speed: 5})
	db.SetBreedAdjust(1, BreedAdjust{HealthAdd: 2, PowerAdd: 1, SpeedAdd: 0})
	db.SetRarityQuality(3, 1.0)

	f := NewFactory(db, ModeLax)
	stats, err := f.Derive(1, 1, 3, 10)
	require.NoError(t, err)

	// health = round(((10+2) * 5 * 10 * (1.0*2)) + 100) = round(1200+100)
	assert.Equal(t, 1300, stats.Health)
	// power = round((5+1) * 10 * 2) = 120
	assert.Equal(t, 120, stats.Power)
	// speed = round((5+0) * 10 * 2) = 100
	assert.Equal(t, 100, stats.Speed)
}

func TestFactory_ExactRecordAtLevel25(t *testing.T) {
	db := NewMemStore()
	db.SetSpeciesBase(1, SpeciesBase{Health: 10, Power: 5, Speed: 5})
	db.SetExactRecord(1, 1, 3, Record{Health: 9999, Power: 888, Speed: 77})

	f := NewFactory(db, ModeLax)
	stats, err := f.Derive(1, 1, 3, 25)
	require.NoError(t, err)
	assert.Equal(t, DerivedStats{Health: 9999, Power: 888, Speed: 77}, stats)
}

func TestFactory_StrictModeMissingRecordErrors(t *testing.T) {
	db := NewMemStore()
	f := NewFactory(db, ModeStrict)

	_, err := f.Derive(1, 1, 3, 25)
	require.Error(t, err)
	var missing *MissingRecordError
	assert.ErrorAs(t, err, &missing)
}

func TestFactory_LaxModeFallsBackToFormulaAtLevel25(t *testing.T) {
	db := NewMemStore()
	db.SetSpeciesBase(1, SpeciesBase{Health: 10, Power: 5, Speed: 5})
	db.SetRarityQuality(3, 1.0)

	f := NewFactory(db, ModeLax)
	stats, err := f.Derive(1, 1, 3, 25)
	require.NoError(t, err)
	assert.Equal(t, round(10*5*25*2)+100, stats.Health)
}

func TestFactory_MissingLookupsDefaultToZeroBase(t *testing.T) {
	db := NewMemStore()
	f := NewFactory(db, ModeLax)

	stats, err := f.Derive(99, 99, 99, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Speed)
	assert.Equal(t, 0, stats.Power)
	assert.Equal(t, 100, stats.Health)
}

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, 3, round(2.5))
	assert.Equal(t, 2, round(2.4))
	assert.Equal(t, 3, round(2.6))
}
