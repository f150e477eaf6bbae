package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/habitquest/habitquest/habitquest"
	"github.com/habitquest/habitquest/habitquest/config"
	"github.com/habitquest/habitquest/habitquest/database"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/habitquest/gamification"
	"github.com/habitquest/habitquest/habitquest/goals"
	"github.com/habitquest/habitquest/habitquest/habits"
	"github.com/habitquest/habitquest/habitquest/logger"
	"github.com/habitquest/habitquest/habitquest/rewards"
	"github.com/habitquest/habitquest/web/handlers"
	"github.com/habitquest/habitquest/web/middleware"
	"github.com/habitquest/habitquest/web/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler("HabitQuest", slog.LevelInfo)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting HabitQuest API",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := habitquest.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	if cfg.Log.Level != slog.LevelInfo {
		slog.SetDefault(slog.New(logger.NewHandler("HabitQuest", cfg.Log.Level)))
	}

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready", slog.Duration("took", time.Since(dbStartTime)))

	bunDB := db.BunDB()
	userRepo := repositories.NewUserRepository(bunDB)
	goalRepo := repositories.NewGoalRepository(bunDB)
	habitRepo := repositories.NewHabitRepository(bunDB)
	logRepo := repositories.NewHabitLogRepository(bunDB)

	calculator := gamification.NewCalculator(gamification.DefaultConfig())
	coordinator := habits.NewCoordinator(habits.NewBunCompletionStore(bunDB), calculator)

	authService, err := services.NewAuthService(userRepo, cfg.Auth)
	if err != nil {
		slog.Error("Failed to initialize auth", slog.Any("error", err))
		os.Exit(-1)
	}

	webApp := &handlers.WebApp{
		DB:           db,
		Users:        userRepo,
		Goals:        goalRepo,
		Habits:       habitRepo,
		Logs:         logRepo,
		AuthService:  authService,
		GoalService:  goals.NewService(bunDB, goalRepo),
		HabitService: habits.NewService(habitRepo),
		Coordinator:  coordinator,
		Rewards:      rewards.NewService(bunDB),
		Calculator:   calculator,
		Version:      version,
	}

	app := fiber.New(fiber.Config{
		AppName:      "HabitQuest API",
		ServerHeader: "HabitQuest",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:3000,http://localhost:5173",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, webApp)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := app.Listen(addr); err != nil {
			slog.Error("Server stopped", slog.Any("error", err))
		}
	}()
	slog.Info("HabitQuest API listening", slog.String("addr", addr))

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(config.ShutdownTimeout); err != nil {
		slog.Error("Shutdown failed", slog.Any("error", err))
	}
}

func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	api := app.Group("/api")

	api.Get("/health", handlers.HandleHealthCheck(webApp))

	auth := api.Group("/auth")
	auth.Post("/register", handlers.HandleRegister(webApp))
	auth.Post("/login", handlers.HandleLogin(webApp))

	protected := middleware.AuthRequired(webApp.AuthService)
	auth.Get("/me", protected, handlers.HandleProfile(webApp))
	auth.Put("/me/title", protected, handlers.HandleUpdateTitle(webApp))
	auth.Delete("/me", protected, handlers.HandleDeleteAccount(webApp))

	goalRoutes := api.Group("/goals", protected)
	goalRoutes.Get("/templates", handlers.HandleListGoalTemplates(webApp))
	goalRoutes.Post("/templates/apply", handlers.HandleApplyGoalTemplate(webApp))
	goalRoutes.Get("/", handlers.HandleListGoals(webApp))
	goalRoutes.Post("/", handlers.HandleCreateGoal(webApp))
	goalRoutes.Put("/:goalId", handlers.HandleRenameGoal(webApp))
	goalRoutes.Delete("/:goalId", handlers.HandleDeleteGoal(webApp))

	habitRoutes := api.Group("/habits", protected)
	habitRoutes.Get("/", handlers.HandleListHabits(webApp))
	habitRoutes.Post("/", handlers.HandleCreateHabit(webApp))
	habitRoutes.Get("/:habitId", handlers.HandleGetHabit(webApp))
	habitRoutes.Put("/:habitId", handlers.HandleUpdateHabit(webApp))
	habitRoutes.Delete("/:habitId", handlers.HandleDeleteHabit(webApp))
	habitRoutes.Post("/:habitId/log", handlers.HandleLogCompletion(webApp))

	api.Get("/logs", protected, handlers.HandleListLogs(webApp))

	rewardRoutes := api.Group("/rewards")
	rewardRoutes.Get("/", handlers.HandleListRewards(webApp))
	rewardRoutes.Get("/owned", protected, handlers.HandleOwnedRewards(webApp))
	rewardRoutes.Post("/:rewardId/redeem", protected, handlers.HandleRedeemReward(webApp))

	api.Get("/dashboard", protected, handlers.HandleDashboard(webApp))
}
