package events

import "time"

const ScheduleCreatedTopic = "org.schedule.announcement.v1"

type ScheduleCreatedEvent struct {
	EventType    string    `json:"event_type"`
	ScheduleID   string    `json:"schedule_id"`
	UnitID       string    `json:"unit_id"`
	Title        string    `json:"title"`
	ScheduleDate string    `json:"schedule_date"`
	StartTime    string    `json:"start_time"`
	OccurredAt   time.Time `json:"occurred_at"`
}
