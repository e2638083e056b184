package database

import (
	"context"
	"time"
)

// PetRecord is a persisted pet ownership row: the (species, breed,
// rarity, level, abilities) tuple the pet factory derives runtime stats
// from, plus the owner and nickname an account screen would show.
type PetRecord struct {
	ID         string    `db:"id" json:"id"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	Nickname   string    `db:"nickname" json:"nickname"`
	SpeciesID  int       `db:"species_id" json:"species_id"`
	Breed      int       `db:"breed" json:"breed"`
	Rarity     int       `db:"rarity" json:"rarity"`
	Level      int       `db:"level" json:"level"`
	AbilityIDs [3]int    `db:"-" json:"ability_ids"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// BattleSessionRecord is a persisted battle session row: enough to
// reconstruct which two teams fought, under which seed, and how it
// ended, without replaying the round log.
type BattleSessionRecord struct {
	ID           string     `db:"id" json:"id"`
	Status       string     `db:"status" json:"status"`
	Seed         int64      `db:"seed" json:"seed"`
	TeamAOwnerID string     `db:"team_a_owner_id" json:"team_a_owner_id"`
	TeamBOwnerID string     `db:"team_b_owner_id" json:"team_b_owner_id"`
	WinnerTeamID string     `db:"winner_team_id" json:"winner_team_id"`
	Draw         bool       `db:"draw" json:"draw"`
	Rounds       int        `db:"rounds" json:"rounds"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	EndedAt      *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// BattleLogEntry is one persisted round's log line for a session, kept
// for post-hoc audit and client replay.
type BattleLogEntry struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Round     int       `db:"round" json:"round"`
	Kind      string    `db:"kind" json:"kind"`
	Payload   string    `db:"payload" json:"payload"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PetRepository defines persistence operations over owned pets.
type PetRepository interface {
	Create(ctx context.Context, pet *PetRecord) error
	GetByID(ctx context.Context, id string) (*PetRecord, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*PetRecord, error)
	Update(ctx context.Context, pet *PetRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*PetRecord, error)
}

// BattleSessionRepository defines persistence operations over battle
// sessions and their round logs.
type BattleSessionRepository interface {
	Create(ctx context.Context, session *BattleSessionRecord) error
	GetByID(ctx context.Context, id string) (*BattleSessionRecord, error)
	Update(ctx context.Context, session *BattleSessionRecord) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*BattleSessionRecord, error)

	AppendLog(ctx context.Context, entry *BattleLogEntry) error
	GetLog(ctx context.Context, sessionID string) ([]*BattleLogEntry, error)
}

// RefreshTokenRepository defines the interface for refresh token data
// operations, used by the admin bearer-token API's token rotation.
type RefreshTokenRepository interface {
	Create(userID, tokenID string, token string, expiresAt time.Time) error
	ValidateAndGet(token string) (*RefreshToken, error)
	Revoke(tokenID string) error
	RevokeAllForUser(userID string) error
	CleanupExpired() error
}

// RefreshToken is a persisted, hashed refresh token row.
type RefreshToken struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	Revoked   bool      `db:"revoked"`
	CreatedAt time.Time `db:"created_at"`
}

// Repositories aggregates every repository interface this package
// exposes, handed to services as one bundle.
type Repositories struct {
	Pets           PetRepository
	BattleSessions BattleSessionRepository
	RefreshTokens  RefreshTokenRepository
}
