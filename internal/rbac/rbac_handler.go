package rbac

import (
	"errors"
	"net/http"
	"strings"

	"go-timesheet/internal/domain"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service Service
	repo    Repository
}

func NewHandler(service Service, repo Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.CompanyID = strings.TrimSpace(req.CompanyID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	if req.UserID == "" || req.CompanyID == "" || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id, company_id, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{
		Allowed: allowed,
	}, nil)
}

func (h *Handler) ListRoles(c *gin.Context) {
	companyID := c.GetString("company_id")

	roles, err := h.repo.ListRoles(companyID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	resp := make([]domain.RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms, err := h.repo.GetPermissionsByRoleID(role.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
		resp = append(resp, mapRole(role, perms))
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Role not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	perms, err := h.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, mapRole(*role, perms), nil)
}

func (h *Handler) CreateRole(c *gin.Context) {
	companyID := c.GetString("company_id")

	var req domain.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	if existing, _ := h.repo.GetRoleByName(companyID, req.Name); existing != nil {
		response.Error(c, http.StatusConflict, "CONFLICT", "Role name already exists", nil)
		return
	}

	role := &RoleRow{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.CreateRole(role); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if len(req.Permissions) > 0 {
		if err := h.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
	}

	response.Success(c, http.StatusCreated, mapRole(*role, nil), nil)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Role not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	var req domain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if err := h.repo.UpdateRole(role); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if req.Permissions != nil {
		if err := h.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
	}

	perms, err := h.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, mapRole(*role, perms), nil)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	if err := h.repo.DeleteRole(c.Param("id")); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListPermissions(c *gin.Context) {
	perms, err := h.repo.ListPermissions()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	resp := make([]domain.PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func mapRole(role RoleRow, perms []PermissionRow) domain.RoleResponse {
	ids := make([]string, len(perms))
	for i, p := range perms {
		ids[i] = p.ID
	}
	return domain.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: ids,
	}
}
