package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/battlepets/engine/internal/battle"
	"github.com/battlepets/engine/internal/database"
	"github.com/battlepets/engine/pkg/logger"
)

// JobHandlers contains all job handler implementations for the
// battle-pets background queue.
type JobHandlers struct {
	logger         *logger.LoggerV2
	pets           database.PetRepository
	battleSessions database.BattleSessionRepository
	refreshTokens  database.RefreshTokenRepository
}

// NewJobHandlers creates a new job handlers instance.
func NewJobHandlers(
	logger *logger.LoggerV2,
	pets database.PetRepository,
	battleSessions database.BattleSessionRepository,
	refreshTokens database.RefreshTokenRepository,
) *JobHandlers {
	return &JobHandlers{
		logger:         logger,
		pets:           pets,
		battleSessions: battleSessions,
		refreshTokens:  refreshTokens,
	}
}

// RegisterAll registers all job handlers with the queue.
func (jh *JobHandlers) RegisterAll(queue *JobQueue) {
	queue.RegisterHandler(JobTypeAbilitySmokeTest, jh.HandleAbilitySmokeTest)
	queue.RegisterHandler(JobTypePetExport, jh.HandlePetExport)
	queue.RegisterHandler(JobTypeBattleSessionExpire, jh.HandleBattleSessionExpire)
	queue.RegisterHandler(JobTypeBattleAnalytics, jh.HandleBattleAnalytics)
	queue.RegisterHandler(JobTypeCleanupExpired, jh.HandleCleanupExpired)
}

// HandleAbilitySmokeTest runs one ability through a minimal scripted
// battle between two stock creatures and fails the job if resolving the
// ability's action panics, catching a bad data-pack entry before it
// reaches players.
func (jh *JobHandlers) HandleAbilitySmokeTest(ctx context.Context, task *asynq.Task) (err error) {
	var payload AbilitySmokeTestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	jh.logger.Info().
		Int("ability_id", payload.AbilityID).
		Msg("Running ability smoke test")

	attacker := battle.NewCreature("smoke-attacker", 0, battle.FamilyBeast, 1, 1, 1, 100, 20, 20)
	defender := battle.NewCreature("smoke-defender", 0, battle.FamilyHumanoid, 1, 1, 1, 100, 20, 20)
	attacker.AbilityIDs[0] = payload.AbilityID

	pets := map[string]*battle.Creature{attacker.ID: attacker, defender.ID: defender}
	bctx := battle.NewContext(payload.Seed, pets, 1)
	bctx.Teams.RegisterTeam(&battle.Team{ID: "A", CreatureIDs: []string{attacker.ID}})
	bctx.Teams.RegisterTeam(&battle.Team{ID: "B", CreatureIDs: []string{defender.ID}})
	loop := battle.NewBattleLoop(bctx, "A", "B")

	actionA := battle.Action{Kind: battle.ActionUseAbility, ActorID: attacker.ID, AbilityID: payload.AbilityID, Slot: 1, TargetID: defender.ID}
	actionB := battle.Action{Kind: battle.ActionPass, ActorID: defender.ID}

	defer func() {
		if r := recover(); r != nil {
			jh.logger.Error().Interface("panic", r).Int("ability_id", payload.AbilityID).Msg("ability smoke test panicked")
			err = fmt.Errorf("ability %d smoke test panicked: %v", payload.AbilityID, r)
		}
	}()
	loop.RunRound(actionA, actionB)

	jh.logger.Info().Int("ability_id", payload.AbilityID).Msg("Ability smoke test completed")
	return nil
}

// HandlePetExport exports a single owner's full pet roster as JSON and
// writes it to the task result, for later retrieval by the requester.
func (jh *JobHandlers) HandlePetExport(ctx context.Context, task *asynq.Task) error {
	var payload PetExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	jh.logger.Info().
		Str("owner_id", payload.OwnerID).
		Str("format", payload.Format).
		Msg("Processing pet export")

	pets, err := jh.pets.GetByOwnerID(ctx, payload.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to load pets for export: %w", err)
	}

	data, err := json.Marshal(pets)
	if err != nil {
		return fmt.Errorf("failed to marshal export data: %w", err)
	}
	if _, err := task.ResultWriter().Write(data); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	jh.logger.Info().Int("pet_count", len(pets)).Msg("Pet export completed")
	return nil
}

// HandleBattleSessionExpire marks battle sessions older than a cutoff as
// abandoned so stale rows don't accumulate.
func (jh *JobHandlers) HandleBattleSessionExpire(ctx context.Context, task *asynq.Task) error {
	var payload BattleSessionExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	sessions, err := jh.battleSessions.List(ctx, 0, 1000)
	if err != nil {
		return fmt.Errorf("failed to list battle sessions: %w", err)
	}

	expired := 0
	for _, s := range sessions {
		if s.Status == "complete" || s.CreatedAt.After(payload.OlderThan) {
			continue
		}
		s.Status = "abandoned"
		if err := jh.battleSessions.Update(ctx, s); err != nil {
			jh.logger.Error().Err(err).Str("session_id", s.ID).Msg("failed to expire battle session")
			continue
		}
		expired++
	}

	jh.logger.Info().Int("expired", expired).Msg("Battle session expiry sweep completed")
	return nil
}

// HandleBattleAnalytics aggregates win/draw counts for battle sessions
// that ended within a time window.
func (jh *JobHandlers) HandleBattleAnalytics(ctx context.Context, task *asynq.Task) error {
	var payload BattleAnalyticsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	sessions, err := jh.battleSessions.List(ctx, 0, 1000)
	if err != nil {
		return fmt.Errorf("failed to list battle sessions: %w", err)
	}

	var completed, draws int
	for _, s := range sessions {
		if s.EndedAt == nil || s.EndedAt.Before(payload.StartTime) || s.EndedAt.After(payload.EndTime) {
			continue
		}
		completed++
		if s.Draw {
			draws++
		}
	}

	jh.logger.Info().
		Int("completed", completed).
		Int("draws", draws).
		Msg("Battle analytics aggregation completed")
	return nil
}

// HandleCleanupExpired purges expired or revoked refresh tokens.
func (jh *JobHandlers) HandleCleanupExpired(ctx context.Context, task *asynq.Task) error {
	var payload CleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	jh.logger.Info().Str("type", payload.Type).Msg("Cleaning up expired data")

	if jh.refreshTokens == nil {
		jh.logger.Debug().Msg("refresh token repository not available")
		return nil
	}
	if err := jh.refreshTokens.CleanupExpired(); err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	jh.logger.Info().Msg("Cleanup completed")
	return nil
}
