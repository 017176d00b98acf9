package timesheet

import (
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware())
	timesheets.Use(middleware.ExtractUserID())
	{
		timesheets.GET("", middleware.RBACAuthorize(rbacService, "timesheet", "read"), handler.GetAll)
		timesheets.GET("/pending-reviews", middleware.RBACAuthorize(rbacService, "timesheet", "approve"), handler.PendingReviews)
		timesheets.GET("/can-submit", middleware.RBACAuthorize(rbacService, "timesheet", "submit"), handler.CanSubmit)
		timesheets.GET("/:id", middleware.RBACAuthorize(rbacService, "timesheet", "read"), handler.GetById)
		timesheets.GET("/:id/validate", middleware.RBACAuthorize(rbacService, "timesheet", "read"), handler.Validate)
		timesheets.POST("", middleware.RBACAuthorize(rbacService, "timesheet", "create"), handler.Create)
		timesheets.PUT("/:id/entries", middleware.RBACAuthorize(rbacService, "timesheet", "update"), handler.UpdateEntries)
		if redisClient != nil {
			timesheets.POST(
				"/:id/submit",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "timesheet", "submit"),
				handler.Submit,
			)
		} else {
			timesheets.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "timesheet", "submit"), handler.Submit)
		}
		timesheets.POST("/:id/projects/:projectId/approve", middleware.RBACAuthorize(rbacService, "timesheet", "approve"), handler.ApproveProject)
		timesheets.POST("/:id/projects/:projectId/reject", middleware.RBACAuthorize(rbacService, "timesheet", "approve"), handler.RejectProject)
		timesheets.DELETE("/:id", middleware.RBACAuthorize(rbacService, "timesheet", "delete"), handler.Delete)
	}
}
