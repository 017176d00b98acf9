package project

import (
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("", middleware.RBACAuthorize(rbacService, "project", "read"), handler.GetAll)
		projects.GET("/:id", middleware.RBACAuthorize(rbacService, "project", "read"), handler.GetById)
		projects.POST("", middleware.RBACAuthorize(rbacService, "project", "manage"), handler.Create)
		projects.PUT("/:id", middleware.RBACAuthorize(rbacService, "project", "manage"), handler.Update)
		projects.DELETE("/:id", middleware.RBACAuthorize(rbacService, "project", "manage"), handler.Delete)
		projects.POST("/:id/tasks", middleware.RBACAuthorize(rbacService, "project", "manage"), handler.CreateTask)
	}
}
