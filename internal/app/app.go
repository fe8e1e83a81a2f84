package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OmarCypha700/nexus-academy-backend/internal/config"
	"github.com/OmarCypha700/nexus-academy-backend/internal/controller"
	"github.com/OmarCypha700/nexus-academy-backend/internal/repository"
	"github.com/OmarCypha700/nexus-academy-backend/internal/service"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/database"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/logger"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/monitoring"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/security"
	"github.com/OmarCypha700/nexus-academy-backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	module     *repository.ModuleRepository
	lesson     *repository.LessonRepository
	quiz       *repository.QuizRepository
	attempt    *repository.AttemptRepository
	enrollment *repository.EnrollmentRepository
	progress   *repository.ProgressRepository
	assignment *repository.AssignmentRepository
	payment    *repository.PaymentRepository
}

type services struct {
	authz      *service.AuthorizationService
	auth       *service.AuthService
	course     *service.CourseService
	lesson     *service.LessonService
	quiz       *service.QuizService
	enrollment *service.EnrollmentService
	dashboard  *service.DashboardService
	payment    *service.PaymentService
	assignment *service.AssignmentService
	storage    *service.StorageService
}

type controllers struct {
	auth       *controller.AuthController
	course     *controller.CourseController
	lesson     *controller.LessonController
	quiz       *controller.QuizController
	enrollment *controller.EnrollmentController
	dashboard  *controller.DashboardController
	payment    *controller.PaymentController
	assignment *controller.AssignmentController
	health     *controller.HealthController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		module:     repository.NewModuleRepository(db),
		lesson:     repository.NewLessonRepository(db),
		quiz:       repository.NewQuizRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		progress:   repository.NewProgressRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		payment:    repository.NewPaymentRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.authz = service.NewAuthorizationService(repos.enrollment)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, repos.module, repos.user, repos.enrollment, s.authz, rdb)
	s.lesson = service.NewLessonService(repos.lesson, repos.module, repos.course, s.authz)
	s.quiz = service.NewQuizService(repos.quiz, repos.attempt, repos.lesson, repos.course, s.authz)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.progress, repos.course, repos.lesson, repos.payment)
	s.dashboard = service.NewDashboardService(repos.course, repos.enrollment, repos.progress, repos.attempt, repos.assignment, repos.user, repos.quiz, s.authz)
	s.payment = service.NewPaymentService(repos.payment, repos.course, repos.enrollment, repos.user,
		service.NewPaystackClient(&cfg.Paystack), &cfg.Paystack)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.lesson, repos.course, s.authz)

	return s, nil
}

func initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		course:     controller.NewCourseController(s.course),
		lesson:     controller.NewLessonController(s.lesson),
		quiz:       controller.NewQuizController(s.quiz),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		dashboard:  controller.NewDashboardController(s.dashboard),
		payment:    controller.NewPaymentController(s.payment),
		assignment: controller.NewAssignmentController(s.assignment, s.storage),
		health:     controller.NewHealthController(db, rdb),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	// Release deployments migrate only when asked; everything else
	// migrates on every start.
	if cfg.Server.Mode != "release" || cfg.ForceMigrate || cfg.MigrateOnly {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("database migration complete")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The catalog cache is an optimization; run without it.
		logger.Log.Warn("redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{Config: cfg, DB: db, Redis: rdb}

	repos := initRepositories(db)
	services, err := initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	controllers := initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("nexus-academy", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	_ = logger.Log.Sync()
	log.Println("Server exiting")
}
