package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"mindmaze-api/internal/database"
	"mindmaze-api/internal/handlers"
	"mindmaze-api/internal/logger"
	"mindmaze-api/internal/middleware"
	"mindmaze-api/internal/routes"
	"mindmaze-api/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	DefaultTitle   = "MindMaze API"
	DefaultVersion = "1.1.0"
)

// 启动阶段
const (
	StagePing        = "ping"
	StageEnsureIndex = "ensure_index"
)

// ErrSealed 路由挂载后不能再添加中间件
var ErrSealed = errors.New("middleware must be attached before routes are mounted")

// ErrInvalidState 生命周期调用顺序错误
var ErrInvalidState = errors.New("invalid application state")

// State 应用生命周期状态
type State int

const (
	StateCreated State = iota
	StateVerifying
	StateReady
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateVerifying:
		return "verifying"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StartupError 启动检查失败
type StartupError struct {
	Stage string
	Err   error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("startup failed at %s: %v", e.Stage, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// usernameIndex users.username 唯一索引
var usernameIndex = database.IndexSpec{Field: "username", Unique: true}

// Application HTTP 应用：中间件、路由集合与启动/关闭生命周期
type Application struct {
	title   string
	version string
	logger  logger.Logger
	engine  *gin.Engine

	mu       sync.RWMutex
	state    State
	sealed   bool
	mounted  []string
	rootOnce sync.Once

	closeOnce sync.Once
	closeErr  error
}

// NewApplication 创建一个没有中间件和路由的应用
func NewApplication(title, version string, log logger.Logger) *Application {
	if title == "" {
		title = DefaultTitle
	}
	if version == "" {
		version = DefaultVersion
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Application{
		title:   title,
		version: version,
		logger:  log.WithModule("app"),
		engine:  gin.New(),
		state:   StateCreated,
	}
}

// Title 应用标题
func (a *Application) Title() string { return a.title }

// Version 应用版本
func (a *Application) Version() string { return a.version }

// UseCORS 挂载跨域中间件
func (a *Application) UseCORS(policy middleware.CORSPolicy) error {
	return a.Use(middleware.CORS(policy))
}

// Use 按顺序追加中间件
func (a *Application) Use(mw ...gin.HandlerFunc) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.sealed {
		return ErrSealed
	}
	a.engine.Use(mw...)
	return nil
}

// Mount 注册一个路由集合
func (a *Application) Mount(collection routes.RouteCollection) {
	a.seal()

	a.mu.Lock()
	defer a.mu.Unlock()

	collection.Register(a.engine)
	a.mounted = append(a.mounted, collection.Name())
}

// Collections 按挂载顺序返回已挂载的集合名
func (a *Application) Collections() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, len(a.mounted))
	copy(out, a.mounted)
	return out
}

// Engine 交给 http.Server 的 gin 引擎
func (a *Application) Engine() *gin.Engine {
	a.seal()
	return a.engine
}

// seal 首次挂载时注册根路由，之后中间件固定
func (a *Application) seal() {
	a.rootOnce.Do(func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		a.sealed = true
		a.engine.GET("/", handlers.Root)
		a.engine.NoRoute(response.NotFound)
	})
}

// Startup 检查数据库连接并确保索引存在
// 状态流转 created -> verifying -> ready | failed，失败不重试
func (a *Application) Startup(ctx context.Context, store database.Store) error {
	a.mu.Lock()
	if a.state != StateCreated {
		state := a.state
		a.mu.Unlock()
		return fmt.Errorf("%w: startup called in state %s", ErrInvalidState, state)
	}
	a.state = StateVerifying
	a.mu.Unlock()

	if err := store.Ping(ctx); err != nil {
		a.logger.Error(ctx, "Could not connect to MongoDB", logger.Error(err))
		return a.fail(StagePing, err)
	}
	a.logger.Info(ctx, "Successfully connected to MongoDB")

	if err := store.EnsureIndex(ctx, database.UsersCollection, usernameIndex); err != nil {
		a.logger.Error(ctx, "Could not create database indexes",
			logger.String("collection", database.UsersCollection),
			logger.Error(err))
		return a.fail(StageEnsureIndex, err)
	}
	a.logger.Info(ctx, "Database indexes have been ensured")

	a.setState(StateReady)
	return nil
}

func (a *Application) fail(stage string, err error) error {
	a.setState(StateFailed)
	return &StartupError{Stage: stage, Err: err}
}

// Shutdown 关闭数据库句柄，多次调用只关闭一次
func (a *Application) Shutdown(ctx context.Context, store database.Store) error {
	a.closeOnce.Do(func() {
		a.setState(StateStopped)

		if err := store.Close(ctx); err != nil {
			a.logger.Error(ctx, "Failed to close MongoDB connection", logger.Error(err))
			a.closeErr = err
			return
		}
		a.logger.Info(ctx, "MongoDB connection closed")
	})
	return a.closeErr
}

func (a *Application) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

// State 当前生命周期状态
func (a *Application) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// StateName 当前状态名
func (a *Application) StateName() string {
	return a.State().String()
}

// Ready 启动检查成功且尚未关闭
func (a *Application) Ready() bool {
	return a.State() == StateReady
}
