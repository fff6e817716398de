package schedule

import (
	"time"

	"github.com/google/uuid"
)

// Schedule adalah kegiatan terjadwal milik satu unit organisasi.
// Status administratif (ACTIVE/CANCELLED) hanya diubah aksi admin dan
// terpisah dari lifecycle turunan yang dihitung saat baca.
type Schedule struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UnitID       uuid.UUID `gorm:"column:unit_id;type:uuid;not null;index"`
	Title        string    `gorm:"column:title;type:varchar(150);not null"`
	ScheduleDate time.Time `gorm:"column:schedule_date;type:date;not null;index"`

	StartTime string `gorm:"column:start_time;type:varchar(5);not null"`
	EndTime   string `gorm:"column:end_time;type:varchar(5);not null"`
	OpenTime  string `gorm:"column:open_time;type:varchar(5);not null"`
	CloseTime string `gorm:"column:close_time;type:varchar(5);not null"`

	// Tersimpan dan bisa diedit admin, tapi belum dipakai aturan
	// submission manapun.
	ToleranceMinutes int `gorm:"column:tolerance_minutes;not null;default:0"`

	// Geofence opsional; keduanya nil berarti kegiatan online dan
	// pemeriksaan lokasi dilewati.
	Latitude     *float64 `gorm:"column:latitude"`
	Longitude    *float64 `gorm:"column:longitude"`
	RadiusMeters *float64 `gorm:"column:radius_meters"`

	MeetingURL *string `gorm:"column:meeting_url;type:varchar(255)"`

	Status    string    `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE'"`
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// HasGeofence: geofence aktif hanya jika kedua koordinat pusat terisi.
func (s Schedule) HasGeofence() bool {
	return s.Latitude != nil && s.Longitude != nil
}
