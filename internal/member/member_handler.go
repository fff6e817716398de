package member

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
	l := zap.L().Named("member.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("member.handler")
	}
	return &Handler{service: service, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	unitID := c.GetString("unit_id")

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), unitID, req)
	if err != nil {
		h.logger.Error("failed to create member", zap.Error(err))
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	unitID := c.GetString("unit_id")

	resp, err := h.service.GetAll(c.Request.Context(), unitID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetOptions(c *gin.Context) {
	unitID := c.GetString("unit_id")

	resp, err := h.service.GetOptions(c.Request.Context(), unitID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	unitID := c.GetString("unit_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), unitID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	unitID := c.GetString("unit_id")
	id := c.Param("id")

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), unitID, id, req)
	if err != nil {
		h.logger.Error("failed to update member", zap.Error(err))
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	unitID := c.GetString("unit_id")
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), unitID, id); err != nil {
		h.logger.Error("failed to delete member", zap.Error(err))
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
