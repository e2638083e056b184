package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battlepets/engine/internal/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(services.NewBattleService(), 50, nil)
}

func createSessionBody() CreateSessionRequest {
	return CreateSessionRequest{
		Seed:      7,
		MaxRounds: 20,
		TeamA: TeamInput{
			ID: "A",
			Creatures: []CreatureInput{
				{ID: "a1", Family: "beast", Rarity: 1, Level: 1, BaseMaxHP: 300, BasePower: 50, BaseSpeed: 20},
			},
		},
		TeamB: TeamInput{
			ID: "B",
			Creatures: []CreatureInput{
				{ID: "b1", Family: "humanoid", Rarity: 1, Level: 1, BaseMaxHP: 300, BasePower: 50, BaseSpeed: 20},
			},
		},
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
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

func TestHealthz(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndGetSession(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", createSessionBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, services.SessionRunning, created.Status)
	assert.NotEmpty(t, created.ID)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestGetSessionUnknownIDReturnsNotFound(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/api/v1/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSessionRejectsUnknownFamily(t *testing.T) {
	r := newTestRouter()
	body := createSessionBody()
	body.TeamA.Creatures[0].Family = "not-a-family"

	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLegalActionsIncludesPass(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", createSessionBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.ID+"/legal-actions?team_id=A", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Actions []ActionResponse `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Actions)
}

func TestSubmitRoundAdvancesRound(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", createSessionBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	roundReq := SubmitRoundRequest{
		ActionA: ActionInput{Kind: "pass", ActorID: "a1"},
		ActionB: ActionInput{Kind: "pass", ActorID: "b1"},
	}
	w = doJSON(t, r, http.MethodPost, "/api/v1/sessions/"+created.ID+"/round", roundReq)
	require.Equal(t, http.StatusOK, w.Code)

	var outcome RoundOutcomeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.RoundNumber)
}

func TestEndSessionRemovesIt(t *testing.T) {
	r := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/api/v1/sessions", createSessionBody())
	require.Equal(t, http.StatusCreated, w.Code)
	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, "/api/v1/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/sessions/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
