package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/battlepets/engine/internal/battle"
	"github.com/battlepets/engine/internal/services"
	"github.com/battlepets/engine/pkg/errors"
)

// Handlers wires the battle session registry to gin route handlers.
type Handlers struct {
	battles          *services.BattleService
	defaultMaxRounds int
}

// NewHandlers builds the route handlers over a battle session registry.
// defaultMaxRounds fills CreateSessionRequest.MaxRounds when a caller
// omits it.
func NewHandlers(battles *services.BattleService, defaultMaxRounds int) *Handlers {
	return &Handlers{battles: battles, defaultMaxRounds: defaultMaxRounds}
}

// Health reports liveness. Readiness (DB/Redis connectivity) is checked
// separately via internal/health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateSession starts a new battle session from two client-supplied
// rosters.
func (h *Handlers) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(err.Error()))
		return
	}

	pets := make(map[string]*battle.Creature)
	teamA := &battle.Team{ID: req.TeamA.ID}
	teamB := &battle.Team{ID: req.TeamB.ID}

	for _, ci := range req.TeamA.Creatures {
		creature, ok := ci.toCreature()
		if !ok {
			c.Error(errors.NewBadRequestError("unknown creature family: " + ci.Family))
			return
		}
		pets[creature.ID] = creature
		teamA.CreatureIDs = append(teamA.CreatureIDs, creature.ID)
	}
	for _, ci := range req.TeamB.Creatures {
		creature, ok := ci.toCreature()
		if !ok {
			c.Error(errors.NewBadRequestError("unknown creature family: " + ci.Family))
			return
		}
		pets[creature.ID] = creature
		teamB.CreatureIDs = append(teamB.CreatureIDs, creature.ID)
	}

	maxRounds := req.MaxRounds
	if maxRounds <= 0 {
		maxRounds = h.defaultMaxRounds
	}

	sess, err := h.battles.StartSession(c.Request.Context(), req.Seed, pets, teamA, teamB, maxRounds)
	if err != nil {
		c.Error(errors.NewInternalError("failed to start battle session", err))
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// GetSession reports a session's current lifecycle state.
func (h *Handlers) GetSession(c *gin.Context) {
	sess, err := h.battles.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(errors.NewNotFoundError("battle session").WithCode(string(errors.ErrCodeBattleSessionNotFound)))
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// LegalActions lists the legal actions for one team in a session.
func (h *Handlers) LegalActions(c *gin.Context) {
	teamID := c.Query("team_id")
	if teamID == "" {
		c.Error(errors.NewBadRequestError("team_id query parameter is required"))
		return
	}

	actions, err := h.battles.LegalActions(c.Request.Context(), c.Param("id"), teamID)
	if err != nil {
		c.Error(errors.NewNotFoundError("battle session").WithCode(string(errors.ErrCodeBattleSessionNotFound)))
		return
	}

	out := make([]ActionResponse, len(actions))
	for i, a := range actions {
		out[i] = actionResponse(a)
	}
	c.JSON(http.StatusOK, gin.H{"actions": out})
}

// SubmitRound runs one round given both teams' chosen actions.
func (h *Handlers) SubmitRound(c *gin.Context) {
	var req SubmitRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewBadRequestError(err.Error()))
		return
	}

	actionA, ok := req.ActionA.toAction()
	if !ok {
		c.Error(errors.NewBadRequestError("unknown action_a kind: " + req.ActionA.Kind))
		return
	}
	actionB, ok := req.ActionB.toAction()
	if !ok {
		c.Error(errors.NewBadRequestError("unknown action_b kind: " + req.ActionB.Kind))
		return
	}

	outcome, err := h.battles.SubmitRound(c.Request.Context(), c.Param("id"), actionA, actionB)
	if err != nil {
		c.Error(errors.NewNotFoundError("battle session").WithCode(string(errors.ErrCodeBattleSessionNotFound)))
		return
	}

	c.JSON(http.StatusOK, roundOutcomeResponse(outcome))
}

// GetCreature reports one participant's live runtime state.
func (h *Handlers) GetCreature(c *gin.Context) {
	creature, err := h.battles.Creature(c.Request.Context(), c.Param("id"), c.Param("creatureID"))
	if err != nil {
		c.Error(errors.NewNotFoundError("creature").WithCode(string(errors.ErrCodePetNotFound)))
		return
	}
	c.JSON(http.StatusOK, creatureResponse(creature))
}

// EndSession removes a session from the registry.
func (h *Handlers) EndSession(c *gin.Context) {
	if err := h.battles.EndSession(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(errors.NewNotFoundError("battle session").WithCode(string(errors.ErrCodeBattleSessionNotFound)))
		return
	}
	c.Status(http.StatusNoContent)
}
