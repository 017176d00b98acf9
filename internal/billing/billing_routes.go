package billing

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
	billing := r.Group("/billing")
	billing.Use(middleware.AuthMiddleware())
	{
		billing.GET("/timesheets", middleware.RBACAuthorize(rbacService, "billing", "read"), handler.ListBillable)
		billing.POST("/timesheets/:id/verify", middleware.RBACAuthorize(rbacService, "billing", "manage"), handler.Verify)
		billing.POST("/timesheets/:id/bill", middleware.RBACAuthorize(rbacService, "billing", "manage"), handler.Bill)
	}
}
