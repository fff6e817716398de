package schedule

type CreateScheduleRequest struct {
	Title            string   `json:"title" binding:"required"`
	ScheduleDate     string   `json:"schedule_date" binding:"required"`
	StartTime        string   `json:"start_time" binding:"required"`
	EndTime          string   `json:"end_time" binding:"required"`
	OpenTime         string   `json:"open_time" binding:"required"`
	CloseTime        string   `json:"close_time" binding:"required"`
	ToleranceMinutes int      `json:"tolerance_minutes"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	RadiusMeters     *float64 `json:"radius_meters"`
	MeetingURL       *string  `json:"meeting_url"`
}

type UpdateScheduleRequest struct {
	Title            string   `json:"title" binding:"required"`
	ScheduleDate     string   `json:"schedule_date" binding:"required"`
	StartTime        string   `json:"start_time" binding:"required"`
	EndTime          string   `json:"end_time" binding:"required"`
	OpenTime         string   `json:"open_time" binding:"required"`
	CloseTime        string   `json:"close_time" binding:"required"`
	ToleranceMinutes int      `json:"tolerance_minutes"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	RadiusMeters     *float64 `json:"radius_meters"`
	MeetingURL       *string  `json:"meeting_url"`
}

type ScheduleResponse struct {
	ID               string   `json:"id"`
	UnitID           string   `json:"unit_id"`
	Title            string   `json:"title"`
	ScheduleDate     string   `json:"schedule_date"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time"`
	OpenTime         string   `json:"open_time"`
	CloseTime        string   `json:"close_time"`
	ToleranceMinutes int      `json:"tolerance_minutes"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
	RadiusMeters     *float64 `json:"radius_meters,omitempty"`
	MeetingURL       *string  `json:"meeting_url,omitempty"`
	Status           string   `json:"status"`
	Lifecycle        string   `json:"lifecycle"`
	CreatedBy        string   `json:"created_by"`
}
