package presence

type SubmitPresenceRequest struct {
	Reason    string   `json:"reason"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type PresenceResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	ScheduleID  string   `json:"schedule_id"`
	Status      string   `json:"status"`
	Reason      *string  `json:"reason,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	SubmittedAt string   `json:"submitted_at"`
}

type HistoryEntry struct {
	ScheduleID     string  `json:"schedule_id"`
	Title          string  `json:"title"`
	ScheduleDate   string  `json:"schedule_date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	ScheduleStatus string  `json:"schedule_status"`
	PresenceStatus string  `json:"presence_status"`
	Reason         *string `json:"reason,omitempty"`
	SubmittedAt    *string `json:"submitted_at,omitempty"`
}
