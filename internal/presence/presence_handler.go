package presence

import (
	"net/http"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")
	scheduleID := c.Param("schedule_id")

	var req SubmitPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), userID, scheduleID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	userID := c.GetString("user_id")
	unitID := c.GetString("unit_id")

	resp, err := h.service.History(c.Request.Context(), userID, unitID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetBySchedule(c *gin.Context) {
	unitID := c.GetString("unit_id")
	scheduleID := c.Param("schedule_id")

	resp, err := h.service.GetBySchedule(c.Request.Context(), unitID, scheduleID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
