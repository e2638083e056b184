package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/battlepets/engine/internal/battle"
)

// Error messages
const (
	errSessionNotFound  = "battle session not found"
	errCreatureNotFound = "creature not found"
)

// SessionStatus tracks a battle session's lifecycle.
type SessionStatus string

const (
	SessionPending  SessionStatus = "pending"
	SessionRunning  SessionStatus = "running"
	SessionComplete SessionStatus = "complete"
)

// Session is one in-memory battle instance: the shared context and loop
// the registry routes actions to, plus the bookkeeping a caller needs
// without reaching into battle.Context directly.
type Session struct {
	ID      string
	Status  SessionStatus
	TeamAID string
	TeamBID string

	Round        int
	WinnerTeamID string
	Draw         bool

	ctx  *battle.Context
	loop *battle.BattleLoop
}

// BattleService is an in-memory session registry: one shared
// battle.Context per active battle, guarded by a single mutex rather
// than per-session locks, since a round touches every manager on the
// context at once.
type BattleService struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewBattleService builds an empty registry.
func NewBattleService() *BattleService {
	return &BattleService{sessions: make(map[string]*Session)}
}

// StartSession builds a fresh Context+BattleLoop over the given roster
// and seed, registers both teams, and returns the new session.
func (s *BattleService) StartSession(_ context.Context, seed int64, pets map[string]*battle.Creature, teamA, teamB *battle.Team, maxRounds int) (*Session, error) {
	ctx := battle.NewContext(seed, pets, maxRounds)
	ctx.Teams.RegisterTeam(teamA)
	ctx.Teams.RegisterTeam(teamB)
	loop := battle.NewBattleLoop(ctx, teamA.ID, teamB.ID)

	sess := &Session{
		ID:      uuid.New().String(),
		Status:  SessionRunning,
		TeamAID: teamA.ID,
		TeamBID: teamB.ID,
		ctx:     ctx,
		loop:    loop,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// GetSession returns the registered session, or an error if unknown.
func (s *BattleService) GetSession(_ context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf(errSessionNotFound)
	}
	return sess, nil
}

// LegalActions reports a team's currently legal actions for this round.
func (s *BattleService) LegalActions(ctx context.Context, sessionID, teamID string) ([]battle.Action, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.loop.LegalActions(teamID), nil
}

// SubmitRound runs one round with both teams' chosen actions and
// updates the session's status from the outcome.
func (s *BattleService) SubmitRound(ctx context.Context, sessionID string, actionA, actionB battle.Action) (battle.RoundOutcome, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return battle.RoundOutcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := sess.loop.RunRound(actionA, actionB)
	sess.Round = outcome.RoundNumber
	if outcome.WinnerTeamID != "" || outcome.Draw {
		sess.Status = SessionComplete
		sess.WinnerTeamID = outcome.WinnerTeamID
		sess.Draw = outcome.Draw
	}
	return outcome, nil
}

// Creature looks up one participant's live runtime state.
func (s *BattleService) Creature(ctx context.Context, sessionID, creatureID string) (*battle.Creature, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := sess.ctx.Pets[creatureID]
	if !ok {
		return nil, fmt.Errorf(errCreatureNotFound)
	}
	return c, nil
}

// EndSession removes a session from the registry regardless of whether
// it finished naturally.
func (s *BattleService) EndSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf(errSessionNotFound)
	}
	delete(s.sessions, sessionID)
	return nil
}
