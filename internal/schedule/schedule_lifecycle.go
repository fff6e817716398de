package schedule

import (
	"time"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"
)

const (
	StatusActive    = "ACTIVE"
	StatusCancelled = "CANCELLED"

	LifecycleUpcoming  = "UPCOMING"
	LifecycleOngoing   = "ONGOING"
	LifecycleCompleted = "COMPLETED"
)

// DeriveLifecycle menghitung state tampilan dari "now" terhadap jam
// mulai/selesai pada tanggal sipil jadwal. Tidak pernah disimpan dan
// tidak memedulikan status administratif: jadwal CANCELLED tetap bisa
// COMPLETED secara kronologis. Start/end bukan pasangan window, jadi
// aturan lewat-tengah-malam tidak berlaku di sini.
func DeriveLifecycle(s Schedule, cal clock.Clock, now time.Time) string {
	startTod, err := clock.ParseTimeOfDay(s.StartTime)
	if err != nil {
		return LifecycleUpcoming
	}
	endTod, err := clock.ParseTimeOfDay(s.EndTime)
	if err != nil {
		return LifecycleUpcoming
	}

	start := cal.At(s.ScheduleDate, startTod)
	end := cal.At(s.ScheduleDate, endTod)

	switch {
	case now.After(end):
		return LifecycleCompleted
	case !now.Before(start):
		return LifecycleOngoing
	default:
		return LifecycleUpcoming
	}
}
