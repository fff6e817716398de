package clock

import (
	"fmt"
	"time"
)

// DefaultTimezone adalah zona sipil tunggal yang dipakai seluruh engine.
// Semua perbandingan waktu harus memakai zona ini, bukan zona host.
const DefaultTimezone = "Asia/Jakarta"

// TimeOfDay merepresentasikan jam-menit tanpa tanggal (format "15:04").
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(v string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q, expected HH:MM: %w", v, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Clock adalah sumber waktu yang di-inject ke service agar test bisa
// memakai instant tetap.
type Clock interface {
	Now() time.Time
	At(date time.Time, tod TimeOfDay) time.Time
	Window(date time.Time, open, close TimeOfDay) (time.Time, time.Time)
}

type Calendar struct {
	loc   *time.Location
	nowFn func() time.Time
}

func NewCalendar(timezone string) (*Calendar, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Calendar{loc: loc, nowFn: time.Now}, nil
}

// WithNow mengembalikan salinan kalender dengan sumber waktu pengganti.
func (c *Calendar) WithNow(nowFn func() time.Time) *Calendar {
	return &Calendar{loc: c.loc, nowFn: nowFn}
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) Now() time.Time {
	return c.nowFn().In(c.loc)
}

// At menggabungkan tanggal sipil dengan jam-menit menjadi instant absolut
// pada zona kalender.
func (c *Calendar) At(date time.Time, tod TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, 0, 0, c.loc)
}

// Window memetakan pasangan open/close ke rentang instant. Close yang
// secara numerik lebih awal dari open berarti jendela melewati tengah
// malam: batas close dimajukan tepat satu hari sipil.
func (c *Calendar) Window(date time.Time, open, close TimeOfDay) (time.Time, time.Time) {
	openAt := c.At(date, open)
	closeAt := c.At(date, close)
	if closeAt.Before(openAt) {
		closeAt = closeAt.AddDate(0, 0, 1)
	}
	return openAt, closeAt
}
