package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/degreeplanner-backend/internal/handlers"
	"github.com/yungbote/degreeplanner-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	CourseHandler      *handlers.CourseHandler
	GraphHandler       *handlers.GraphHandler
	PlanHandler        *handlers.PlanHandler
	EligibilityHandler *handlers.EligibilityHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Catalog
	api.GET("/courses", cfg.CourseHandler.ListCourses)
	api.GET("/courses/search", cfg.CourseHandler.SearchCourses)
	api.GET("/courses/:idOrCode", cfg.CourseHandler.GetCourse)
	api.POST("/courses", cfg.CourseHandler.CreateCourse)
	api.PATCH("/courses/:idOrCode", cfg.CourseHandler.UpdateCourse)
	api.DELETE("/courses/:idOrCode", cfg.CourseHandler.DeleteCourse)

	// Dependency graph
	api.GET("/graph/courses/:id/prerequisites", cfg.GraphHandler.GetPrerequisites)
	api.GET("/graph/courses/:id/dependents", cfg.GraphHandler.GetDependents)
	api.GET("/graph/courses/:id/prerequisites/chain", cfg.GraphHandler.GetPrerequisiteChain)
	api.GET("/graph/courses/:id/dependents/chain", cfg.GraphHandler.GetDependentChain)
	api.POST("/graph/courses/:id/prerequisites", cfg.GraphHandler.AddPrerequisite)
	api.DELETE("/graph/courses/:id/prerequisites/:prereqId", cfg.GraphHandler.RemovePrerequisite)
	api.GET("/graph/relationships", cfg.GraphHandler.GetAllCourseRelationships)

	// Degree plan
	api.GET("/plan", cfg.PlanHandler.GetMyPlan)
	api.POST("/plan/semesters", cfg.PlanHandler.AddSemester)
	api.DELETE("/plan/semesters/:semesterId", cfg.PlanHandler.DeleteSemester)
	api.POST("/plan/semesters/:semesterId/courses", cfg.PlanHandler.AddPlannedCourse)
	api.DELETE("/plan/courses/:plannedCourseId", cfg.PlanHandler.DeletePlannedCourse)
	api.DELETE("/plan/courses/:plannedCourseId/cascade", cfg.PlanHandler.DeletePlannedCourseWithDependents)

	// Eligibility
	api.GET("/eligibility/courses", cfg.EligibilityHandler.GetEligibleCourses)
	api.GET("/eligibility/courses/:courseCode", cfg.EligibilityHandler.CheckEligibility)

	return router
}
