package unit

import (
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("unit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("unit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	u, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to create unit", zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusCreated, u, nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	unitID := c.GetString("unit_id")
	if unitID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unit ID not found in context", nil)
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), unitID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, u, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	units, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, units, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	unitID := c.GetString("unit_id")
	if unitID == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unit ID not found in context", nil)
		return
	}

	var req UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	u, err := h.service.Update(c.Request.Context(), unitID, req)
	if err != nil {
		h.logger.Error("failed to update unit", zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, u, nil)
}
