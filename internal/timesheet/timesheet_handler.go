package timesheet

import (
	"errors"
	"net/http"
	"strconv"

	"go-timesheet/internal/shared/apperror"
	"go-timesheet/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("timesheet.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timesheet.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("user_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

// writeServiceError maps the typed gate/validator errors to their
// dedicated payloads before falling back to the generic mapping.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var pendingErr *PendingReviewsError
	if errors.As(err, &pendingErr) {
		response.Error(c, http.StatusConflict, apperror.CodePendingReviews, pendingErr.Error(), pendingErr.Pending)
		return
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		response.Error(c, http.StatusUnprocessableEntity, apperror.CodeValidationFailed, validationErr.Error(), validationErr.Result)
		return
	}

	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("timesheet request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	h.logger.Debug("http create timesheet", zap.String("company_id", companyID), zap.String("actor_id", actorID))

	var req CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create timesheet validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")

	resp, err := h.service.GetAll(ctx, companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	mode := c.Query("mode")

	resp, err := h.service.GetByID(ctx, companyID, actorID, targetID, mode)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateEntries(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	var req UpdateEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update entries validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateEntries(ctx, companyID, actorID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Validate(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")

	result, err := h.service.Validate(ctx, companyID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) CanSubmit(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	check, err := h.service.CanSubmit(ctx, companyID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, check, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	resp, err := h.service.Submit(ctx, companyID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveProject(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	projectID := c.Param("projectId")
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	role := c.GetString("role")

	resp, err := h.service.ApproveProject(ctx, companyID, actorID, id, projectID, role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RejectProject(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	projectID := c.Param("projectId")
	companyID := c.GetString("company_id")
	actorID := getActorID(c)
	role := c.GetString("role")

	var req RejectProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reject project validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RejectProject(ctx, companyID, actorID, id, projectID, role, req.RejectionReason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) PendingReviews(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	pending, err := h.service.PendingReviews(ctx, companyID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pending, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")

	if err := h.service.Delete(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
