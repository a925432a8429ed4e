package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/degreeplanner-backend/internal/clients/redis"
	"github.com/yungbote/degreeplanner-backend/internal/config"
	"github.com/yungbote/degreeplanner-backend/internal/data/graph"
	plan "github.com/yungbote/degreeplanner-backend/internal/data/repos/plan"
	"github.com/yungbote/degreeplanner-backend/internal/db"
	"github.com/yungbote/degreeplanner-backend/internal/handlers"
	"github.com/yungbote/degreeplanner-backend/internal/middleware"
	"github.com/yungbote/degreeplanner-backend/internal/platform/logger"
	"github.com/yungbote/degreeplanner-backend/internal/platform/neo4jdb"
	"github.com/yungbote/degreeplanner-backend/internal/server"
	"github.com/yungbote/degreeplanner-backend/internal/services"
)

func main() {
	// Config
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(cfg, log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Neo4j
	log.Info("Connecting to Neo4j from main...")
	graphClient, err := neo4jdb.New(neo4jdb.Config{
		URI:            cfg.Neo4j.URI,
		User:           cfg.Neo4j.User,
		Password:       cfg.Neo4j.Password,
		Database:       cfg.Neo4j.Database,
		TimeoutSeconds: cfg.Neo4j.TimeoutSeconds,
		MaxPoolSize:    cfg.Neo4j.MaxPoolSize,
	}, log)
	if err != nil {
		log.Error("Neo4j init failed", "error", err)
		os.Exit(1)
	}
	defer graphClient.Close(context.Background())

	// Redis (optional; the relationship cache degrades to misses)
	var relCache redis.RelationshipCache
	if cfg.Redis.Addr != "" {
		relCache, err = redis.NewRelationshipCache(cfg.Redis.Addr, 5*time.Minute, log)
		if err != nil {
			log.Warn("Redis init failed, running without relationship cache", "error", err)
			relCache = nil
		} else {
			defer relCache.Close()
		}
	}

	// Repos and stores
	log.Info("Setting up repos from main...")
	userRepo := plan.NewUserRepo(thePG, log)
	degreePlanRepo := plan.NewDegreePlanRepo(thePG, log)
	planSemesterRepo := plan.NewPlanSemesterRepo(thePG, log)
	plannedCourseRepo := plan.NewPlannedCourseRepo(thePG, log)
	courseStore := graph.NewCourseStore(graphClient, log)
	prereqStore := graph.NewPrereqStore(graphClient, log)

	// Services
	log.Info("Setting up services from main...")
	authService := services.NewAuthService(log, userRepo, cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	catalogService := services.NewCatalogService(log, courseStore, relCache)
	dependencyService := services.NewDependencyService(log, prereqStore, relCache)
	plannerService := services.NewPlannerService(thePG, log, degreePlanRepo, planSemesterRepo, plannedCourseRepo, courseStore)
	eligibilityService := services.NewEligibilityService(log, plannerService, courseStore)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	courseHandler := handlers.NewCourseHandler(log, catalogService)
	graphHandler := handlers.NewGraphHandler(log, dependencyService)
	planHandler := handlers.NewPlanHandler(log, plannerService)
	eligibilityHandler := handlers.NewEligibilityHandler(log, eligibilityService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		CourseHandler:      courseHandler,
		GraphHandler:       graphHandler,
		PlanHandler:        planHandler,
		EligibilityHandler: eligibilityHandler,
	})

	fmt.Printf("Server listening on :%s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
