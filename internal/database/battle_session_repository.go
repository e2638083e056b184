package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// battleSessionRepository is the sqlx-backed BattleSessionRepository.
type battleSessionRepository struct {
	db *DB
}

// NewBattleSessionRepository creates a new battle session repository.
func NewBattleSessionRepository(db *DB) BattleSessionRepository {
	return &battleSessionRepository{db: db}
}

func (r *battleSessionRepository) Create(ctx context.Context, session *BattleSessionRecord) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	query := r.db.Rebind(`
		INSERT INTO battle_sessions (id, status, seed, team_a_owner_id, team_b_owner_id, winner_team_id, draw, rounds, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	_, err := r.db.ExecContext(ctx, query, session.ID, session.Status, session.Seed,
		session.TeamAOwnerID, session.TeamBOwnerID, session.WinnerTeamID, session.Draw, session.Rounds)
	if err != nil {
		return fmt.Errorf("failed to create battle session: %w", err)
	}
	return nil
}

func (r *battleSessionRepository) GetByID(ctx context.Context, id string) (*BattleSessionRecord, error) {
	query := r.db.Rebind(`
		SELECT id, status, seed, team_a_owner_id, team_b_owner_id, winner_team_id, draw, rounds, created_at, updated_at, ended_at
		FROM battle_sessions WHERE id = ?
	`)
	var session BattleSessionRecord
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("battle session not found")
		}
		return nil, fmt.Errorf("failed to get battle session: %w", err)
	}
	return &session, nil
}

func (r *battleSessionRepository) Update(ctx context.Context, session *BattleSessionRecord) error {
	query := r.db.Rebind(`
		UPDATE battle_sessions
		SET status = ?, winner_team_id = ?, draw = ?, rounds = ?, ended_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, session.Status, session.WinnerTeamID, session.Draw, session.Rounds, session.EndedAt, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update battle session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("battle session not found")
	}
	return nil
}

func (r *battleSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM battle_sessions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete battle session: %w", err)
	}
	return nil
}

func (r *battleSessionRepository) List(ctx context.Context, offset, limit int) ([]*BattleSessionRecord, error) {
	query := r.db.Rebind(`
		SELECT id, status, seed, team_a_owner_id, team_b_owner_id, winner_team_id, draw, rounds, created_at, updated_at, ended_at
		FROM battle_sessions ORDER BY created_at DESC LIMIT ? OFFSET ?
	`)
	var sessions []*BattleSessionRecord
	if err := r.db.SelectContext(ctx, &sessions, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list battle sessions: %w", err)
	}
	return sessions, nil
}

func (r *battleSessionRepository) AppendLog(ctx context.Context, entry *BattleLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := r.db.Rebind(`
		INSERT INTO battle_log_entries (id, session_id, round, kind, payload, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.SessionID, entry.Round, entry.Kind, entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to append battle log entry: %w", err)
	}
	return nil
}

func (r *battleSessionRepository) GetLog(ctx context.Context, sessionID string) ([]*BattleLogEntry, error) {
	query := r.db.Rebind(`
		SELECT id, session_id, round, kind, payload, created_at
		FROM battle_log_entries WHERE session_id = ? ORDER BY round, created_at
	`)
	var entries []*BattleLogEntry
	if err := r.db.SelectContext(ctx, &entries, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get battle log: %w", err)
	}
	return entries, nil
}
