package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/battlepets/engine/internal/database"
	"github.com/battlepets/engine/internal/middleware"
	"github.com/battlepets/engine/internal/services"
)

// NewRouter builds the gin engine serving the battle session API and,
// when pets is non-nil, the persisted pet roster API.
func NewRouter(battles *services.BattleService, defaultMaxRounds int, pets database.PetRepository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ErrorHandlerGin())

	h := NewHandlers(battles, defaultMaxRounds)

	r.GET("/healthz", h.Health)

	sessions := r.Group("/api/v1/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.GET("/:id/legal-actions", h.LegalActions)
		sessions.POST("/:id/round", h.SubmitRound)
		sessions.GET("/:id/creatures/:creatureID", h.GetCreature)
		sessions.DELETE("/:id", h.EndSession)
	}

	if pets != nil {
		rh := NewRosterHandlers(pets)
		owners := r.Group("/api/v1/owners/:ownerID/pets")
		{
			owners.POST("", rh.CreatePet)
			owners.GET("", rh.ListRoster)
		}
		petRoutes := r.Group("/api/v1/pets")
		{
			petRoutes.GET("/:id", rh.GetPet)
			petRoutes.PATCH("/:id", rh.RenamePet)
			petRoutes.DELETE("/:id", rh.DeletePet)
		}
	}

	return r
}
