package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "aurabox/docs"
	"aurabox/internal/ai"
	"aurabox/internal/config"
	"aurabox/internal/handler"
	authHandler "aurabox/internal/handler/auth"
	"aurabox/internal/pkg/cache"
	"aurabox/internal/pkg/datauri"
	"aurabox/internal/pkg/mongodb"
	"aurabox/internal/repository"
	authRepo "aurabox/internal/repository/auth"
	"aurabox/internal/server/middleware"
	"aurabox/internal/service"
	"aurabox/internal/widget"
)

// MaxRequestBody 组件接口请求体上限：base64 图片加上其余 JSON 字段的余量
const MaxRequestBody = datauri.MaxImageBytes*4/3 + 64<<10

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache

	authSvc   *service.AuthService
	widgetSvc *service.WidgetService
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	completer, err := newCompleter(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
		mongo:  mongoClient,
		redis:  redisCache,
	}
	srv.authSvc = service.NewAuthService(srv.userStore(), jwtSecret(cfg), accessTokenExpiry(cfg))
	srv.widgetSvc = service.NewWidgetService(completer, srv.conversationStore(), widgetOptions(cfg))

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// newCompleter 创建补全客户端（未配置 API key 时为 mock 模式）
func newCompleter(ctx context.Context, cfg *config.Config) (*ai.Client, error) {
	provider, err := ai.NewProvider(ctx, &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion provider: %w", err)
	}

	knowledge, err := ai.LoadKnowledge(cfg.Assistant.KnowledgeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	log.Info().
		Str("provider", provider.Name()).
		Str("model", cfg.AI.Model).
		Str("assistant", cfg.Assistant.Name).
		Msg("initialized completion client")

	builder := ai.NewPromptBuilder(cfg.Assistant.Name, knowledge)
	return ai.NewClient(provider, builder, cfg.Assistant.SupportPhone), nil
}

// conversationStore 对话持久化：MongoDB 优先，Redis 作为最新对话的读缓存；都没有时使用内存
func (s *Server) conversationStore() repository.ConversationStore {
	var store repository.ConversationStore
	if s.mongo != nil {
		store = repository.NewConversationRepo(s.mongo.Database())
	} else {
		log.Warn().Msg("MongoDB not configured, conversations are kept in memory")
		store = repository.NewMemoryConversationRepo()
	}

	if s.redis != nil {
		ttl := s.cfg.Redis.CacheTTL
		if ttl <= 0 {
			ttl = cache.LatestConversationTTL
		}
		store = repository.NewCachedConversationRepo(store, s.redis, ttl)
	}
	return store
}

// userStore 用户存储：MongoDB 未配置时使用内存（仅用于本地调试）
func (s *Server) userStore() authRepo.UserStore {
	if s.mongo != nil {
		return authRepo.NewUserRepo(s.mongo.Database())
	}
	log.Warn().Msg("MongoDB not configured, registered users are kept in memory")
	return authRepo.NewMemoryUserRepo()
}

func jwtSecret(cfg *config.Config) string {
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT secret not configured, using default (NOT SECURE for production)")
		return "default-secret-key-change-in-production"
	}
	return cfg.Auth.JWTSecret
}

func accessTokenExpiry(cfg *config.Config) time.Duration {
	if cfg.Auth.AccessTokenExpiry == 0 {
		return 24 * time.Hour
	}
	return cfg.Auth.AccessTokenExpiry
}

func widgetOptions(cfg *config.Config) service.WidgetOptions {
	launcher := widget.DefaultLauncherOptions
	if cfg.Widget.LauncherSize > 0 {
		launcher.Size = cfg.Widget.LauncherSize
	}
	if cfg.Widget.LauncherPadding > 0 {
		launcher.Padding = cfg.Widget.LauncherPadding
	}
	if cfg.Widget.LongPress > 0 {
		launcher.LongPress = cfg.Widget.LongPress
	}

	lang, ok := ai.ParseLanguage(cfg.Assistant.DefaultLanguage)
	if !ok {
		lang = ai.DefaultLanguage
	}

	return service.WidgetOptions{
		Session: widget.Config{
			GuestTurnLimit: cfg.Widget.GuestTurnLimit,
			Launcher:       launcher,
			PersistTimeout: cfg.Widget.PersistTimeout,
			Location:       cfg.Widget.Location(),
		},
		SessionTTL:      cfg.Widget.SessionTTL,
		DefaultLanguage: lang,
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	deps := map[string]handler.Pinger{}
	if s.mongo != nil {
		deps["mongo"] = s.mongo
	}
	if s.redis != nil {
		deps["redis"] = s.redis
	}
	healthHandler := handler.NewHealthHandler(deps, s.widgetSvc.Count)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := s.engine.Group("/api/v1")
	v1.Use(middleware.Identity(s.authSvc.JWT()))
	{
		// 认证接口
		authHdl := authHandler.NewHandler(s.authSvc)
		v1.POST("/auth/anonymous", authHdl.Anonymous)
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/login", authHdl.Login)
		v1.GET("/auth/me", authHdl.GetMe)

		// 组件接口
		widgetHdl := handler.NewWidgetHandler(s.widgetSvc)
		sessions := v1.Group("/widget/sessions", middleware.BodyLimit(MaxRequestBody))
		sessions.POST("", widgetHdl.Mount)
		sessions.GET("/:id", widgetHdl.Get)
		sessions.DELETE("/:id", widgetHdl.Unmount)
		sessions.PUT("/:id/index", widgetHdl.Seek)
		sessions.POST("/:id/image", widgetHdl.AttachImage)
		sessions.DELETE("/:id/image", widgetHdl.DiscardImage)
		sessions.PUT("/:id/language", widgetHdl.SetLanguage)
		sessions.POST("/:id/launcher/events", widgetHdl.LauncherEvent)
		sessions.POST("/:id/panel/close", widgetHdl.ClosePanel)

		// 发送消息单独限流
		if s.cfg.RateLimit.Enabled {
			limiter := middleware.NewRateLimiter(s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst)
			sessions.POST("/:id/messages", middleware.RateLimit(limiter), widgetHdl.SendMessage)
		} else {
			sessions.POST("/:id/messages", widgetHdl.SendMessage)
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 空闲会话清理
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.widgetSvc.RunJanitor(janitorCtx)

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// 先关闭会话，等待对话写回，再断开存储
		s.widgetSvc.Shutdown()
		s.closeStores()
		return err
	case err := <-errCh:
		s.widgetSvc.Shutdown()
		s.closeStores()
		return err
	}
}

func (s *Server) closeStores() {
	if s.mongo != nil {
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
