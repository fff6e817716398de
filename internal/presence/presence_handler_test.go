package presence

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	presenceerrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/presence/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	submitFn        func(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error)
	historyFn       func(ctx context.Context, userID, unitID string) ([]HistoryEntry, error)
	getByScheduleFn func(ctx context.Context, unitID, scheduleID string) ([]PresenceResponse, error)
}

func (s *stubService) Submit(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error) {
	return s.submitFn(ctx, userID, scheduleID, req)
}

func (s *stubService) History(ctx context.Context, userID, unitID string) ([]HistoryEntry, error) {
	return s.historyFn(ctx, userID, unitID)
}

func (s *stubService) GetBySchedule(ctx context.Context, unitID, scheduleID string) ([]PresenceResponse, error) {
	return s.getByScheduleFn(ctx, unitID, scheduleID)
}

func newTestRouter(userID, unitID string) (*httptest.ResponseRecorder, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("unit_id", unitID)
		c.Next()
	})
	return w, r
}

func TestHandler_Submit_Success(t *testing.T) {
	svc := &stubService{
		submitFn: func(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error) {
			return PresenceResponse{ID: "p-1", Status: StatusPresent}, nil
		},
	}
	handler := NewHandler(svc)

	w, r := newTestRouter("user-1", "unit-1")
	r.POST("/presences/schedules/:schedule_id", handler.Submit)

	body, _ := json.Marshal(SubmitPresenceRequest{})
	req, _ := http.NewRequest(http.MethodPost, "/presences/schedules/sched-1", bytes.NewBuffer(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res["ok"])
}

func TestHandler_Submit_WindowClosed(t *testing.T) {
	svc := &stubService{
		submitFn: func(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error) {
			return PresenceResponse{}, presenceerrors.ErrWindowClosed
		},
	}
	handler := NewHandler(svc)

	w, r := newTestRouter("user-1", "unit-1")
	r.POST("/presences/schedules/:schedule_id", handler.Submit)

	body, _ := json.Marshal(SubmitPresenceRequest{})
	req, _ := http.NewRequest(http.MethodPost, "/presences/schedules/sched-1", bytes.NewBuffer(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res["ok"])
	errObj := res["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_STATE", errObj["code"])
}

func TestHandler_Submit_AlreadySubmittedConflict(t *testing.T) {
	svc := &stubService{
		submitFn: func(ctx context.Context, userID, scheduleID string, req SubmitPresenceRequest) (PresenceResponse, error) {
			return PresenceResponse{}, presenceerrors.ErrAlreadySubmitted
		},
	}
	handler := NewHandler(svc)

	w, r := newTestRouter("user-1", "unit-1")
	r.POST("/presences/schedules/:schedule_id", handler.Submit)

	body, _ := json.Marshal(SubmitPresenceRequest{})
	req, _ := http.NewRequest(http.MethodPost, "/presences/schedules/sched-1", bytes.NewBuffer(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_History(t *testing.T) {
	svc := &stubService{
		historyFn: func(ctx context.Context, userID, unitID string) ([]HistoryEntry, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "unit-1", unitID)
			return []HistoryEntry{
				{ScheduleID: "sched-1", PresenceStatus: DisplayAbsent},
			}, nil
		},
	}
	handler := NewHandler(svc)

	w, r := newTestRouter("user-1", "unit-1")
	r.GET("/presences/history", handler.History)

	req, _ := http.NewRequest(http.MethodGet, "/presences/history", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res["ok"])
	data := res["data"].([]interface{})
	assert.Len(t, data, 1)
}
