package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mindmaze-api/internal/database"
	"mindmaze-api/internal/models"
	"mindmaze-api/internal/validation"
	apperrors "mindmaze-api/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

// MockUserService 用户服务 mock
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockStatsService 统计服务 mock
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx)
	if e := args.Get(0); e != nil {
		return e.([]models.LeaderboardEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatsService) Stats(ctx context.Context) (models.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Stats), args.Error(1)
}

type authObserver struct {
	logins, signups map[bool]int
}

func newAuthObserver() *authObserver {
	return &authObserver{logins: map[bool]int{}, signups: map[bool]int{}}
}

func (o *authObserver) RecordUserLogin(success bool)        { o.logins[success]++ }
func (o *authObserver) RecordUserRegistration(success bool) { o.signups[success]++ }

func newUser(name string) *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		Username:  name,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func authRouter(svc *MockUserService, obs AuthObserver) *gin.Engine {
	h := NewAuthHandler(svc, obs)
	r := gin.New()
	r.POST("/api/signup", h.Signup)
	r.POST("/api/login", h.Login)
	return r
}

func TestAuthHandler_Signup(t *testing.T) {
	svc := new(MockUserService)
	obs := newAuthObserver()
	r := authRouter(svc, obs)

	svc.On("Signup", mock.Anything, &models.SignupRequest{Username: "alice_1", Password: "secret123"}).
		Return(newUser("alice_1"), nil).Once()

	w := doJSON(r, http.MethodPost, "/api/signup", `{"username":"alice_1","password":"secret123"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "User created successfully", body["message"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice_1", user["username"])
	assert.Equal(t, 0.0, user["score"])
	assert.NotContains(t, user, "password_hash")
	assert.Equal(t, 1, obs.signups[true])
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"empty body", ``, "Request body is required"},
		{"bad json", `{"username":`, "Request body is not valid JSON"},
		{"missing username", `{"password":"secret123"}`, "username is required"},
		{"bad username", `{"username":"a b","password":"secret123"}`, "username must be 3-20 characters of letters, digits or underscore"},
		{"short password", `{"username":"alice","password":"123"}`, "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			r := authRouter(svc, nil)

			w := doJSON(r, http.MethodPost, "/api/signup", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.detail, decode(t, w)["detail"])
			svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthHandler_SignupDuplicate(t *testing.T) {
	svc := new(MockUserService)
	obs := newAuthObserver()
	r := authRouter(svc, obs)

	svc.On("Signup", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewBadRequestError("Username already exists")).Once()

	w := doJSON(r, http.MethodPost, "/api/signup", `{"username":"alice","password":"secret123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already exists", decode(t, w)["detail"])
	assert.Equal(t, 1, obs.signups[false])
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockUserService)
	obs := newAuthObserver()
	r := authRouter(svc, obs)

	svc.On("Login", mock.Anything, &models.LoginRequest{Username: "alice", Password: "secret123"}).
		Return(newUser("alice"), nil).Once()
	svc.On("Login", mock.Anything, &models.LoginRequest{Username: "alice", Password: "wrong!"}).
		Return(nil, apperrors.NewUnauthorizedError("Invalid username or password")).Once()

	w := doJSON(r, http.MethodPost, "/api/login", `{"username":"alice","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", decode(t, w)["message"])

	w = doJSON(r, http.MethodPost, "/api/login", `{"username":"alice","password":"wrong!"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", decode(t, w)["detail"])

	// 空密码不会到达服务层
	w = doJSON(r, http.MethodPost, "/api/login", `{"username":"alice","password":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	assert.Equal(t, 1, obs.logins[true])
	assert.Equal(t, 2, obs.logins[false])
	svc.AssertExpectations(t)
}

func TestGameHandler(t *testing.T) {
	svc := new(MockStatsService)
	h := NewGameHandler(svc)
	r := gin.New()
	r.GET("/api/leaderboard", h.Leaderboard)
	r.GET("/api/stats", h.Stats)

	svc.On("Leaderboard", mock.Anything).Return([]models.LeaderboardEntry{
		{Username: "alice", Score: 30},
		{Username: "bob", Score: 10},
	}, nil).Once()
	svc.On("Stats", mock.Anything).Return(models.Stats{TotalUsers: 12, ActiveGames: 1, ConnectedPlayers: 3}, nil).Once()

	w := doJSON(r, http.MethodGet, "/api/leaderboard", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"username":"alice","score":30},{"username":"bob","score":10}]`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_users":12,"active_games":1,"connected_players":3}`, w.Body.String())
}

func TestGameHandler_Error(t *testing.T) {
	svc := new(MockStatsService)
	h := NewGameHandler(svc)
	r := gin.New()
	r.GET("/api/stats", h.Stats)

	svc.On("Stats", mock.Anything).Return(models.Stats{}, apperrors.NewDatabaseError("Failed to count users", errors.New("boom"))).Once()

	w := doJSON(r, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w), "detail")
}

func TestRoot(t *testing.T) {
	r := gin.New()
	r.GET("/", Root)

	w := doJSON(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Welcome to the MindMaze API!","status":"online"}`, w.Body.String())
}

type fakeApp struct{ ready bool }

func (a fakeApp) Ready() bool { return a.ready }
func (a fakeApp) StateName() string {
	if a.ready {
		return "ready"
	}
	return "verifying"
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error   { return p.err }
func (p fakePinger) Health(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		app    fakeApp
		db     fakePinger
		cache  CacheHealth
		status int
	}{
		{"ready", fakeApp{ready: true}, fakePinger{}, nil, http.StatusOK},
		{"still verifying", fakeApp{ready: false}, fakePinger{}, nil, http.StatusServiceUnavailable},
		{"database down", fakeApp{ready: true}, fakePinger{err: errors.New("down")}, nil, http.StatusServiceUnavailable},
		{"cache degraded", fakeApp{ready: true}, fakePinger{}, fakePinger{err: errors.New("down")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.app, tt.db, tt.cache, "1.0.0")
			r := gin.New()
			r.GET("/live", h.Live)
			r.GET("/ready", h.Ready)

			assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/live", "").Code)
			w := doJSON(r, http.MethodGet, "/ready", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "1.0.0", decode(t, w)["version"])
		})
	}
}

type reportingPinger struct {
	fakePinger
	status database.HealthStatus
	stats  database.CommandStats
}

func (p reportingPinger) HealthStatus() database.HealthStatus { return p.status }
func (p reportingPinger) CommandStats() database.CommandStats { return p.stats }

func TestHealthHandler_ReportsDatabaseDetails(t *testing.T) {
	checked := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	db := reportingPinger{
		status: database.HealthStatus{LastHealthCheck: checked, IsHealthy: true},
		stats:  database.CommandStats{TotalCommands: 12, FailedCommands: 2, SlowCommands: 1},
	}
	h := NewHealthHandler(fakeApp{ready: true}, db, nil, "1.0.0")
	r := gin.New()
	r.GET("/ready", h.Ready)

	w := doJSON(r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Database)
	assert.True(t, body.Database.IsHealthy)
	assert.True(t, checked.Equal(body.Database.LastHealthCheck))
	assert.Equal(t, int64(12), body.Database.TotalCommands)
	assert.Equal(t, int64(2), body.Database.FailedCommands)
	assert.Equal(t, int64(1), body.Database.SlowCommands)

	// 不提供详情的依赖不输出 database 字段
	plain := NewHealthHandler(fakeApp{ready: true}, fakePinger{}, nil, "1.0.0")
	r2 := gin.New()
	r2.GET("/ready", plain.Ready)
	_, present := decode(t, doJSON(r2, http.MethodGet, "/ready", ""))["database"]
	assert.False(t, present)
}

type fakeHub struct{ called []string }

func (f *fakeHub) ServeWS(w http.ResponseWriter, _ *http.Request, username string) error {
	f.called = append(f.called, username)
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func TestWebSocketHandler_RejectsInvalidUsername(t *testing.T) {
	hub := &fakeHub{}
	h := NewWebSocketHandler(hub)
	r := gin.New()
	r.GET("/ws/:username", h.Connect)

	w := doJSON(r, http.MethodGet, "/ws/no-dashes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid username", decode(t, w)["detail"])
	assert.Empty(t, hub.called)

	doJSON(r, http.MethodGet, "/ws/alice_1", "")
	assert.Equal(t, []string{"alice_1"}, hub.called)
}
