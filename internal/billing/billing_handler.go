package billing

import (
	"net/http"

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
	l := zap.L().Named("billing.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("billing.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("billing request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ListBillable(c *gin.Context) {
	companyID := c.GetString("company_id")

	resp, err := h.service.ListBillable(c.Request.Context(), companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Verify(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")

	resp, err := h.service.Verify(c.Request.Context(), companyID, actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Bill(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("user_id")

	resp, err := h.service.Bill(c.Request.Context(), companyID, actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
