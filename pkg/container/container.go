package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"yamdb-backend/internal/authz"
	"yamdb-backend/internal/config"
	infraCache "yamdb-backend/internal/infrastructure/cache"
	"yamdb-backend/internal/infrastructure/database"
	"yamdb-backend/internal/infrastructure/email"
	"yamdb-backend/internal/infrastructure/queue"
	"yamdb-backend/pkg/cache"
	"yamdb-backend/pkg/jwt"

	// User domain
	"yamdb-backend/internal/domains/user"
	userHandler "yamdb-backend/internal/domains/user/handler"
	userRepo "yamdb-backend/internal/domains/user/repository"
	userService "yamdb-backend/internal/domains/user/service"

	// Catalog
	"yamdb-backend/internal/domains/category"
	categoryHandler "yamdb-backend/internal/domains/category/handler"
	categoryRepo "yamdb-backend/internal/domains/category/repository"
	categoryService "yamdb-backend/internal/domains/category/service"
	"yamdb-backend/internal/domains/genre"
	genreHandler "yamdb-backend/internal/domains/genre/handler"
	genreRepo "yamdb-backend/internal/domains/genre/repository"
	genreService "yamdb-backend/internal/domains/genre/service"
	titleHandler "yamdb-backend/internal/domains/title/handler"
	titleRepo "yamdb-backend/internal/domains/title/repository"
	titleService "yamdb-backend/internal/domains/title/service"

	// Reviews
	reviewHandler "yamdb-backend/internal/domains/review/handler"
	reviewRepo "yamdb-backend/internal/domains/review/repository"
	reviewService "yamdb-backend/internal/domains/review/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa tất cả dependencies của application (api và worker dùng chung).
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache // Redis, hoặc noop khi Redis không kết nối được
	JWTManager  *jwt.Manager
	Enforcer    *authz.Enforcer
	EmailSender email.Sender
	AsynqClient *asynq.Client // nil khi QUEUE_ENABLED=false

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo     user.Repository
	CategoryRepo category.CategoryRepository
	GenreRepo    genre.GenreRepository
	TitleRepo    titleRepo.TitleRepository
	ReviewRepo   reviewRepo.ReviewRepository
	CommentRepo  reviewRepo.CommentRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService     userService.ServiceInterface
	CategoryService category.CategoryService
	GenreService    genre.GenreService
	TitleService    titleService.ServiceInterface
	ReviewService   reviewService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler     *userHandler.UserHandler
	CategoryHandler *categoryHandler.CategoryHandler
	GenreHandler    *genreHandler.GenreHandler
	TitleHandler    *titleHandler.TitleHandler
	ReviewHandler   *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo toàn bộ dependency graph theo thứ tự:
// config → database → cache → auth → queue → repositories → services → handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	if err := c.initDatabase(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.initCache()

	// ========================================
	// STEP 4: AUTH, AUTHZ, EMAIL, QUEUE
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	enforcer, err := authz.NewEnforcer(cfg.Authz.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init authorization: %w", err)
	}
	c.Enforcer = enforcer

	c.EmailSender = email.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From)

	if cfg.Queue.Enabled {
		c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
		log.Info().Msg("✅ Asynq client initialized")
	}

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// RedisClientOpt trả về Redis options cho asynq client, server và scheduler.
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if c.Config.App.AutoMigrate {
		if err := database.Migrate(ctx, db.Pool); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info().Msg("✅ Database schema up to date")
	}
	return nil
}

// initCache: Redis failure không critical, repositories chạy với noop cache.
func (c *Container) initCache() {
	redisCache := infraCache.NewRedisCache(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical), caching disabled")
		_ = redisCache.Close()
		c.Cache = cache.NewNoop()
		return
	}
	c.Cache = redisCache
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool, c.Cache)
	c.GenreRepo = genreRepo.NewPostgresRepository(pool, c.Cache)
	c.TitleRepo = titleRepo.NewPostgresRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.CommentRepo = reviewRepo.NewPostgresCommentRepository(pool)
}

// codeNotifier: có queue thì gửi mail qua worker, không thì gửi trực tiếp.
func (c *Container) codeNotifier() user.CodeNotifier {
	if c.AsynqClient != nil {
		return queue.NewCodeNotifier(c.AsynqClient)
	}
	return email.NewDirectNotifier(c.EmailSender)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.Enforcer,
		c.codeNotifier(),
		userService.Config{
			CodeTTL:    c.Config.Auth.ConfirmationCodeTTL,
			BcryptCost: c.Config.Auth.BcryptCost,
		},
	)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo, c.Enforcer)
	c.GenreService = genreService.NewGenreService(c.GenreRepo, c.Enforcer)
	c.TitleService = titleService.NewTitleService(c.TitleRepo, c.CategoryRepo, c.GenreRepo, c.Enforcer)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.CommentRepo, c.Enforcer)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.GenreHandler = genreHandler.NewGenreHandler(c.GenreService)
	c.TitleHandler = titleHandler.NewTitleHandler(c.TitleService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close asynq client")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Info().Msg("✅ Container cleanup completed")
}
