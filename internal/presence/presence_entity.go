package presence

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent   = "PRESENT"
	StatusExcused   = "EXCUSED"
	StatusCancelled = "CANCELLED"

	// Status tampilan untuk jadwal tanpa record; dihitung saat baca,
	// tidak pernah ditulis balik ke store.
	DisplayAbsent         = "ABSENT"
	DisplayNotYetRecorded = "NOT_YET_RECORDED"
)

// PresenceRecord: paling banyak satu per pasangan (user, schedule),
// dijaga unique index. Sekali dibuat tidak pernah diganti submission
// berikutnya; satu-satunya mutasi adalah cascade pembatalan jadwal.
type PresenceRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_presence_user_schedule"`
	ScheduleID uuid.UUID `gorm:"column:schedule_id;type:uuid;not null;uniqueIndex:uq_presence_user_schedule"`

	Status string  `gorm:"column:status;type:varchar(20);not null"`
	Reason *string `gorm:"column:reason;type:text"`

	// Koordinat hanya terisi untuk klaim Present yang melewati
	// pemeriksaan geofence.
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`

	SubmittedAt time.Time `gorm:"column:submitted_at;type:timestamptz;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (PresenceRecord) TableName() string {
	return "presence_records"
}
