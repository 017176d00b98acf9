package app

import (
	"database/sql"
	"path/filepath"

	"go-timesheet/internal/billing"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/project"
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/rbac/infra"
	"go-timesheet/internal/timesheet"
	"go-timesheet/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	projectRepo := project.NewRepository(gormDB)
	timesheetRepo := timesheet.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	userService := user.NewService(userRepo, rbacService)
	projectService := project.NewService(db, projectRepo)
	timesheetService := timesheet.NewServiceWithOutbox(db, timesheetRepo, outboxRepo, timesheet.DefaultRules())
	billingService := billing.NewService(db, timesheetRepo, "")

	// --- Handlers ---
	userHandler := user.NewHandler(userService)
	projectHandler := project.NewHandler(projectService)
	timesheetHandler := timesheet.NewHandler(timesheetService)
	billingHandler := billing.NewHandler(billingService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	timesheet.RegisterBindings()

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler)
		project.RegisterRoutes(api, projectHandler, rbacService)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService, rdb)
		billing.RegisterRoutes(api, billingHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
