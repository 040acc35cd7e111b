package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/wonny/tickernews/internal/api/response"
	"github.com/wonny/tickernews/internal/domain/news"
	"github.com/wonny/tickernews/internal/service/refresher"
)

// ScheduleSource reports the refresher watchlist and next tick
type ScheduleSource interface {
	GetSchedule() *refresher.Schedule
}

// RefresherHandler exposes refresher fetch logs and schedule
type RefresherHandler struct {
	fetchLogRepo news.FetchLogRepository
	schedule     ScheduleSource
}

// NewRefresherHandler creates a new RefresherHandler
func NewRefresherHandler(fetchLogRepo news.FetchLogRepository, schedule ScheduleSource) *RefresherHandler {
	return &RefresherHandler{fetchLogRepo: fetchLogRepo, schedule: schedule}
}

// ListLogs handles GET /api/refresher/logs?limit=20
func (h *RefresherHandler) ListLogs(c *gin.Context) {
	limit, err := queryInt(c, "limit", 20)
	if err != nil || limit < 1 || limit > 100 {
		response.ValidationError(c, []response.FieldError{
			{Field: "limit", Message: "must be an integer between 1 and 100"},
		})
		return
	}

	logs, err := h.fetchLogRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.DatabaseError(c, err)
		return
	}
	if logs == nil {
		logs = []*news.FetchLog{}
	}

	response.SuccessList(c, logs, len(logs))
}

// GetSchedule handles GET /api/refresher/schedule
func (h *RefresherHandler) GetSchedule(c *gin.Context) {
	response.Success(c, h.schedule.GetSchedule())
}
