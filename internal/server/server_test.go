package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"AssistantDashboard_V0.1/internal/config"
	"AssistantDashboard_V0.1/internal/features"
	"AssistantDashboard_V0.1/internal/geminiservice"
	"AssistantDashboard_V0.1/internal/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adviceJSON = `{"savingsSuggestions":["Cook at home"],"taxOptimization":["Max out the 401k"]}`
	planJSON   = `{"workoutPlan":[{"day":"Monday","workout":"Run","details":"5k easy"}],` +
		`"mealPlan":[{"day":"Monday","breakfast":"Oats","lunch":"Salad","dinner":"Fish"}]}`
	subTasksJSON = `[{"task":"Open an account","completed":true},{"task":"Automate transfers","completed":false}]`
)

// stubGenerator answers by schema. When gate is set every call blocks on it.
type stubGenerator struct {
	mu      sync.Mutex
	answers map[*geminiservice.GeminiSchema]string
	err     error
	gate    chan struct{}
}

func (g *stubGenerator) Invoke(ctx context.Context, prompt string, schema *geminiservice.GeminiSchema) (string, error) {
	g.mu.Lock()
	gate, err, raw := g.gate, g.err, g.answers[schema]
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	return raw, nil
}

func newStub() *stubGenerator {
	return &stubGenerator{answers: map[*geminiservice.GeminiSchema]string{
		geminiservice.FinancialAdviceSchema: adviceJSON,
		geminiservice.FitnessPlanSchema:     planJSON,
		geminiservice.SubTasksSchema:        subTasksJSON,
	}}
}

type testApp struct {
	srv    *Server
	http   *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T, gen features.Generator) *testApp {
	t.Helper()

	cfg := config.Config{AppEnv: "development", SessionSecret: "test-secret", DashboardCacheSize: 8}
	s, err := New(cfg, gen, "test-model")
	require.NoError(t, err)

	ts := httptest.NewServer(s.RegisterRoutes())
	t.Cleanup(ts.Close)
	t.Cleanup(s.hub.CloseAll)

	return &testApp{srv: s, http: ts, client: newClient(t)}
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	return a.doWith(t, a.client, method, path, body)
}

func (a *testApp) doWith(t *testing.T, client *http.Client, method, path string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.http.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

func TestSessionCookieKeepsDashboard(t *testing.T) {
	app := newTestApp(t, newStub())

	code, body := app.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, code)
	first := decode[features.DashboardSnapshot](t, body)
	require.NotEmpty(t, first.ID)

	_, body = app.do(t, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, first.ID, decode[features.DashboardSnapshot](t, body).ID)

	// A browser without the cookie starts over.
	_, body = app.doWith(t, newClient(t), http.MethodGet, "/api/dashboard", nil)
	assert.NotEqual(t, first.ID, decode[features.DashboardSnapshot](t, body).ID)
	assert.Equal(t, 2, app.srv.dashboards.Len())
}

func TestDashboardDefaults(t *testing.T) {
	app := newTestApp(t, newStub())

	_, body := app.do(t, http.MethodGet, "/api/dashboard", nil)
	snap := decode[features.DashboardSnapshot](t, body)

	assert.Empty(t, snap.Finance.Expenses)
	assert.Nil(t, snap.Finance.Advice)
	assert.False(t, snap.Finance.Loading)
	assert.Equal(t, features.DefaultProfile, snap.Fitness.Profile)
	assert.Empty(t, snap.Goals.Goals)
}

func TestExpenseLifecycle(t *testing.T) {
	app := newTestApp(t, newStub())

	code, body := app.do(t, http.MethodPost, "/api/finance/expenses", map[string]any{"category": "Food", "amount": 40})
	require.Equal(t, http.StatusCreated, code, string(body))
	food := decode[map[string]any](t, body)

	app.do(t, http.MethodPost, "/api/finance/expenses", map[string]any{"category": "Rent", "amount": 1000})
	app.do(t, http.MethodPost, "/api/finance/expenses", map[string]any{"category": "Food", "amount": 2.5})

	code, body = app.do(t, http.MethodGet, "/api/finance/breakdown", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"name":"Food","value":42.5},{"name":"Rent","value":1000}]`, string(body))

	id := food["id"].(string)
	code, _ = app.do(t, http.MethodDelete, "/api/finance/expenses/"+id, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = app.do(t, http.MethodDelete, "/api/finance/expenses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestExpenseValidation(t *testing.T) {
	app := newTestApp(t, newStub())

	code, body := app.do(t, http.MethodPost, "/api/finance/expenses", map[string]any{"category": "Food"})
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	code, body = app.do(t, http.MethodPost, "/api/finance/expenses", map[string]any{"category": "Food", "amount": -3})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "amount", decode[map[string]string](t, body)["field"])

	code, body = app.do(t, http.MethodPost, "/api/finance/investments", map[string]any{"name": "", "type": "ETF", "value": 10})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name", decode[map[string]string](t, body)["field"])
}

func TestAdviceAcceptedThenRejectedWhileLoading(t *testing.T) {
	gen := newStub()
	gen.gate = make(chan struct{})
	app := newTestApp(t, gen)

	code, body := app.do(t, http.MethodPost, "/api/finance/advice", nil)
	require.Equal(t, http.StatusAccepted, code, string(body))
	assert.True(t, decode[features.FinanceSnapshot](t, body).Loading)

	code, _ = app.do(t, http.MethodPost, "/api/finance/advice", nil)
	assert.Equal(t, http.StatusConflict, code)

	close(gen.gate)

	var snap features.FinanceSnapshot
	require.Eventually(t, func() bool {
		_, body := app.do(t, http.MethodGet, "/api/finance", nil)
		snap = decode[features.FinanceSnapshot](t, body)
		return !snap.Loading
	}, 5*time.Second, 10*time.Millisecond)

	require.NotNil(t, snap.Advice)
	assert.Equal(t, []string{"Cook at home"}, snap.Advice.SavingsSuggestions)
	assert.Empty(t, snap.Error)
}

func TestAdviceFailureReportsError(t *testing.T) {
	gen := newStub()
	gen.err = errors.New("upstream unavailable")
	app := newTestApp(t, gen)

	code, _ := app.do(t, http.MethodPost, "/api/finance/advice", nil)
	require.Equal(t, http.StatusAccepted, code)

	require.Eventually(t, func() bool {
		_, body := app.do(t, http.MethodGet, "/api/finance", nil)
		snap := decode[features.FinanceSnapshot](t, body)
		return !snap.Loading && snap.Error == "Failed to get financial advice. Please try again."
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRecipesRequireIngredients(t *testing.T) {
	gen := newStub()
	app := newTestApp(t, gen)

	code, body := app.do(t, http.MethodPost, "/api/recipes/generate", map[string]string{"ingredients": "  "})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ingredients", decode[map[string]string](t, body)["field"])

	_, body = app.do(t, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, "Please list some ingredients.", decode[features.RecipesSnapshot](t, body).Error)
}

func TestFitnessProfileValidation(t *testing.T) {
	app := newTestApp(t, newStub())

	code, body := app.do(t, http.MethodPut, "/api/fitness/profile", map[string]any{"age": 0, "weight": 70, "height": 170, "goal": "Run"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "age", decode[map[string]string](t, body)["field"])

	code, body = app.do(t, http.MethodPut, "/api/fitness/profile", map[string]any{"age": 41, "weight": 80, "height": 180, "goal": "Run a marathon"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Run a marathon", decode[features.FitnessSnapshot](t, body).Profile.Goal)

	code, body = app.do(t, http.MethodPut, "/api/fitness/progress", map[string]string{"notes": "Ran 10k"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ran 10k", decode[features.FitnessSnapshot](t, body).Progress.Notes)
}

func TestGoalSubTaskToggle(t *testing.T) {
	app := newTestApp(t, newStub())

	code, body := app.do(t, http.MethodPost, "/api/goals", map[string]string{"description": "Save for a house", "target": "$50,000"})
	require.Equal(t, http.StatusAccepted, code, string(body))

	var goals features.GoalsSnapshot
	require.Eventually(t, func() bool {
		_, body := app.do(t, http.MethodGet, "/api/goals", nil)
		goals = decode[features.GoalsSnapshot](t, body)
		return !goals.Loading && len(goals.Goals) == 1
	}, 5*time.Second, 10*time.Millisecond)

	goal := goals.Goals[0]
	require.Len(t, goal.SubTasks, 2)
	assert.False(t, goal.SubTasks[0].Completed)

	code, body = app.do(t, http.MethodPost, "/api/goals/"+goal.ID+"/subtasks/0/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[models.Goal](t, body).SubTasks[0].Completed)

	code, _ = app.do(t, http.MethodPost, "/api/goals/"+goal.ID+"/subtasks/7/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = app.do(t, http.MethodPost, "/api/goals/"+goal.ID+"/subtasks/first/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = app.do(t, http.MethodPost, "/api/goals/missing/subtasks/0/toggle", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = app.do(t, http.MethodDelete, "/api/goals/"+goal.ID, nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestSocketReceivesCompletion(t *testing.T) {
	app := newTestApp(t, newStub())

	_, body := app.do(t, http.MethodGet, "/api/dashboard", nil)
	id := decode[features.DashboardSnapshot](t, body).ID

	dialer := websocket.Dialer{Jar: app.client.Jar, HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial("ws"+strings.TrimPrefix(app.http.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return app.srv.hub.Count(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	code, _ := app.do(t, http.MethodPost, "/api/fitness/plan", nil)
	require.Equal(t, http.StatusAccepted, code)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GENERATION_COMPLETE","feature":"fitness","status":"success"}`, string(msg))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, newStub())

	code, body := app.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)

	resp := decode[map[string]any](t, body)
	assert.Equal(t, "online", resp["status"])
	service := resp["service"].(map[string]any)
	assert.Equal(t, "test-model", service["model"])
}

func TestSocketFirstSharesDashboardWithLaterRequests(t *testing.T) {
	app := newTestApp(t, newStub())

	// No cookie yet: the upgrade itself creates the dashboard.
	dialer := websocket.Dialer{Jar: app.client.Jar, HandshakeTimeout: 2 * time.Second}
	conn, resp, err := dialer.Dial("ws"+strings.TrimPrefix(app.http.URL, "http")+"/api/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"))

	_, body := app.do(t, http.MethodGet, "/api/dashboard", nil)
	id := decode[features.DashboardSnapshot](t, body).ID

	assert.Equal(t, 1, app.srv.dashboards.Len())
	require.Eventually(t, func() bool { return app.srv.hub.Count(id) == 1 }, 2*time.Second, 10*time.Millisecond)

	code, _ := app.do(t, http.MethodPost, "/api/fitness/plan", nil)
	require.Equal(t, http.StatusAccepted, code)

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GENERATION_COMPLETE","feature":"fitness","status":"success"}`, string(msg))
}
