package presence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	presenceerrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/presence/errors"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/schedule"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/apperror"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn                func(ctx context.Context, p *PresenceRecord) error
	findByUserAndScheduleFn func(ctx context.Context, userID, scheduleID string) (*PresenceRecord, error)
	findAllByUserFn         func(ctx context.Context, userID string) ([]PresenceRecord, error)
	findAllByScheduleFn     func(ctx context.Context, scheduleID string) ([]PresenceRecord, error)
}

func (f *fakeRepo) Create(ctx context.Context, p *PresenceRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeRepo) FindByUserAndSchedule(ctx context.Context, userID, scheduleID string) (*PresenceRecord, error) {
	if f.findByUserAndScheduleFn != nil {
		return f.findByUserAndScheduleFn(ctx, userID, scheduleID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAllByUser(ctx context.Context, userID string) ([]PresenceRecord, error) {
	if f.findAllByUserFn != nil {
		return f.findAllByUserFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeRepo) FindAllBySchedule(ctx context.Context, scheduleID string) ([]PresenceRecord, error) {
	if f.findAllByScheduleFn != nil {
		return f.findAllByScheduleFn(ctx, scheduleID)
	}
	return nil, nil
}

func (f *fakeRepo) CancelByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) DeleteByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error) {
	return 0, nil
}

type fakeScheduleStore struct {
	findByIDFn         func(ctx context.Context, id string) (*schedule.Schedule, error)
	findActiveByUnitFn func(ctx context.Context, unitID string) ([]schedule.Schedule, error)
}

func (f *fakeScheduleStore) FindByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScheduleStore) FindActiveByUnit(ctx context.Context, unitID string) ([]schedule.Schedule, error) {
	if f.findActiveByUnitFn != nil {
		return f.findActiveByUnitFn(ctx, unitID)
	}
	return nil, nil
}

func fixedCalendar(t *testing.T, now time.Time) *clock.Calendar {
	t.Helper()
	cal, err := clock.NewCalendar("")
	assert.NoError(t, err)
	return cal.WithNow(func() time.Time { return now })
}

func makeSchedule(date time.Time, open, close string) *schedule.Schedule {
	return &schedule.Schedule{
		ID:           uuid.New(),
		UnitID:       uuid.New(),
		Title:        "Rapat Pleno",
		ScheduleDate: date,
		StartTime:    open,
		EndTime:      close,
		OpenTime:     open,
		CloseTime:    close,
		Status:       schedule.StatusActive,
	}
}

func TestService_Submit_PresentInsideWindow(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, cal.Location())

	var saved *PresenceRecord
	repo := &fakeRepo{
		createFn: func(ctx context.Context, p *PresenceRecord) error {
			saved = p
			return nil
		},
	}
	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	svc := NewService(repo, store, fixedCalendar(t, now))

	resp, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.NotNil(t, saved)
	assert.Nil(t, saved.Reason)
}

func TestService_Submit_WindowBoundariesInclusive(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	jakarta := cal.Location()

	repo := &fakeRepo{}
	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	cases := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"one minute before open", time.Date(2026, 3, 10, 8, 59, 0, 0, jakarta), presenceerrors.ErrWindowNotOpen},
		{"exactly at open", time.Date(2026, 3, 10, 9, 0, 0, 0, jakarta), nil},
		{"exactly at close", time.Date(2026, 3, 10, 11, 0, 0, 0, jakarta), nil},
		{"one second after close", time.Date(2026, 3, 10, 11, 0, 1, 0, jakarta), presenceerrors.ErrWindowClosed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(repo, store, fixedCalendar(t, tc.now))
			_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestService_Submit_MidnightWrappingWindow(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "22:00", "01:00")

	cal, _ := clock.NewCalendar("")
	jakarta := cal.Location()

	repo := &fakeRepo{}
	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	// 00:30 keesokan harinya masih di dalam jendela
	inside := time.Date(2026, 3, 11, 0, 30, 0, 0, jakarta)
	svc := NewService(repo, store, fixedCalendar(t, inside))
	resp, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)

	// 02:00 sudah lewat batas close
	after := time.Date(2026, 3, 11, 2, 0, 0, 0, jakarta)
	svc = NewService(repo, store, fixedCalendar(t, after))
	_, err = svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
	assert.ErrorIs(t, err, presenceerrors.ErrWindowClosed)
}

func TestService_Submit_AlreadySubmittedWinsOverWindowChecks(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	// Jauh setelah close: kalau urutan salah, ErrWindowClosed yang keluar.
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, cal.Location())

	repo := &fakeRepo{
		findByUserAndScheduleFn: func(ctx context.Context, userID, scheduleID string) (*PresenceRecord, error) {
			return &PresenceRecord{ID: uuid.New(), Status: StatusPresent}, nil
		},
	}
	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	svc := NewService(repo, store, fixedCalendar(t, now))
	_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
	assert.ErrorIs(t, err, presenceerrors.ErrAlreadySubmitted)
}

func TestService_Submit_UniqueViolationTranslated(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, cal.Location())

	repo := &fakeRepo{
		createFn: func(ctx context.Context, p *PresenceRecord) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_presence_user_schedule"}
		},
	}
	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	svc := NewService(repo, store, fixedCalendar(t, now))
	_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
	assert.ErrorIs(t, err, presenceerrors.ErrAlreadySubmitted)
}

func TestService_Submit_ScheduleNotFound(t *testing.T) {
	ctx := context.Background()
	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, cal.Location())

	svc := NewService(&fakeRepo{}, &fakeScheduleStore{}, fixedCalendar(t, now))
	_, err := svc.Submit(ctx, uuid.NewString(), uuid.NewString(), SubmitPresenceRequest{})
	assert.ErrorIs(t, err, presenceerrors.ErrScheduleNotFound)
}

func TestService_Submit_ExcusedBypassesOpenAndGeofence(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")
	lat, lon := -6.2, 106.8
	radius := 30.0
	sched.Latitude = &lat
	sched.Longitude = &lon
	sched.RadiusMeters = &radius

	cal, _ := clock.NewCalendar("")
	// Sebelum open dan tanpa koordinat: klaim izin tetap diterima.
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, cal.Location())

	var saved *PresenceRecord
	repo := &fakeRepo{
		createFn: func(ctx context.Context, p *PresenceRecord) error {
			saved = p
			return nil
		},
	}
	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	svc := NewService(repo, store, fixedCalendar(t, now))
	resp, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{
		Reason: "sakit demam",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusExcused, resp.Status)
	assert.NotNil(t, saved.Reason)
	assert.Equal(t, "sakit demam", *saved.Reason)
	assert.Nil(t, saved.Latitude)
}

func TestService_Submit_ExcusedRejectedAfterClose(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 11, 30, 0, 0, cal.Location())

	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	svc := NewService(&fakeRepo{}, store, fixedCalendar(t, now))
	_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{
		Reason: "izin keluarga",
	})
	assert.ErrorIs(t, err, presenceerrors.ErrWindowClosed)
}

func TestService_Submit_ShortReasonTreatedAsPresent(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	// Sebelum open: klaim dengan alasan <= 3 rune dinilai sebagai
	// Present, jadi batas open tetap berlaku.
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, cal.Location())

	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	svc := NewService(&fakeRepo{}, store, fixedCalendar(t, now))
	_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{
		Reason: "ok",
	})
	assert.ErrorIs(t, err, presenceerrors.ErrWindowNotOpen)
}

func TestService_Submit_Geofence(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	const meterPerDegreeLat = 111194.93
	centerLat, centerLon := -6.2, 106.8

	sched := makeSchedule(date, "09:00", "11:00")
	sched.Latitude = &centerLat
	sched.Longitude = &centerLon // radius nil -> default 50m

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, cal.Location())

	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}

	t.Run("missing coordinates rejected", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, store, fixedCalendar(t, now))
		_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{})
		assert.ErrorIs(t, err, presenceerrors.ErrLocationRequired)
	})

	t.Run("49m inside default radius", func(t *testing.T) {
		var saved *PresenceRecord
		repo := &fakeRepo{
			createFn: func(ctx context.Context, p *PresenceRecord) error {
				saved = p
				return nil
			},
		}
		svc := NewService(repo, store, fixedCalendar(t, now))

		lat := centerLat + 49.0/meterPerDegreeLat
		resp, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{
			Latitude:  &lat,
			Longitude: &centerLon,
		})
		assert.NoError(t, err)
		assert.Equal(t, StatusPresent, resp.Status)
		assert.NotNil(t, saved.Latitude)
		assert.NotNil(t, saved.Longitude)
	})

	t.Run("51m outside default radius carries details", func(t *testing.T) {
		svc := NewService(&fakeRepo{}, store, fixedCalendar(t, now))

		lat := centerLat + 51.0/meterPerDegreeLat
		_, err := svc.Submit(ctx, uuid.NewString(), sched.ID.String(), SubmitPresenceRequest{
			Latitude:  &lat,
			Longitude: &centerLon,
		})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		details, ok := appErr.Details.(presenceerrors.GeofenceDetails)
		assert.True(t, ok)
		assert.Greater(t, details.DistanceMeters, 50.0)
		assert.Equal(t, 50.0, details.RadiusMeters)
	})
}

func TestService_History_DerivedStatuses(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	unitID := uuid.New()

	cal, _ := clock.NewCalendar("")
	jakarta := cal.Location()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, jakarta)

	// Jadwal kemarin tanpa record -> ABSENT; jadwal besok -> belum
	// tercatat; jadwal kemarin dengan record -> status record.
	past := *makeSchedule(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "09:00", "11:00")
	future := *makeSchedule(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), "09:00", "11:00")
	recorded := *makeSchedule(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "13:00", "15:00")

	repo := &fakeRepo{
		findAllByUserFn: func(ctx context.Context, id string) ([]PresenceRecord, error) {
			return []PresenceRecord{
				{
					ID:          uuid.New(),
					UserID:      userID,
					ScheduleID:  recorded.ID,
					Status:      StatusPresent,
					SubmittedAt: time.Date(2026, 3, 9, 13, 5, 0, 0, jakarta),
				},
			}, nil
		},
	}
	store := &fakeScheduleStore{
		findActiveByUnitFn: func(ctx context.Context, id string) ([]schedule.Schedule, error) {
			return []schedule.Schedule{past, future, recorded}, nil
		},
	}

	svc := NewService(repo, store, fixedCalendar(t, now))
	entries, err := svc.History(ctx, userID.String(), unitID.String())
	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	byID := make(map[string]HistoryEntry, len(entries))
	for _, e := range entries {
		byID[e.ScheduleID] = e
	}

	assert.Equal(t, DisplayAbsent, byID[past.ID.String()].PresenceStatus)
	assert.Equal(t, DisplayNotYetRecorded, byID[future.ID.String()].PresenceStatus)
	assert.Equal(t, StatusPresent, byID[recorded.ID.String()].PresenceStatus)
	assert.NotNil(t, byID[recorded.ID.String()].SubmittedAt)
}

func TestService_History_CorruptWindowTimesFallBackWithWarning(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	unitID := uuid.New()

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())

	// Jadwal kemarin yang normalnya ABSENT: open time korup membuat
	// batas close tak bisa dihitung, jadi jatuh ke NOT_YET_RECORDED
	// dan anomalinya tercatat di log.
	corrupt := *makeSchedule(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "09:00", "11:00")
	corrupt.OpenTime = "9am"

	store := &fakeScheduleStore{
		findActiveByUnitFn: func(ctx context.Context, id string) ([]schedule.Schedule, error) {
			return []schedule.Schedule{corrupt}, nil
		},
	}

	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(&fakeRepo{}, store, fixedCalendar(t, now), zap.New(core))

	entries, err := svc.History(ctx, userID.String(), unitID.String())
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, DisplayNotYetRecorded, entries[0].PresenceStatus)

	assert.Equal(t, 1, logs.FilterMessageSnippet("unparseable open time").Len())
}

func TestService_History_InvalidIDs(t *testing.T) {
	ctx := context.Background()
	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())
	svc := NewService(&fakeRepo{}, &fakeScheduleStore{}, fixedCalendar(t, now))

	_, err := svc.History(ctx, "not-a-uuid", uuid.NewString())
	assert.ErrorIs(t, err, presenceerrors.ErrInvalidUserID)

	_, err = svc.History(ctx, uuid.NewString(), "not-a-uuid")
	assert.ErrorIs(t, err, presenceerrors.ErrInvalidUnitID)
}

func TestService_GetBySchedule_UnitOwnership(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sched := makeSchedule(date, "09:00", "11:00")

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())

	store := &fakeScheduleStore{
		findByIDFn: func(ctx context.Context, id string) (*schedule.Schedule, error) { return sched, nil },
	}
	svc := NewService(&fakeRepo{}, store, fixedCalendar(t, now))

	// Unit lain tidak boleh melihat record jadwal ini.
	_, err := svc.GetBySchedule(ctx, uuid.NewString(), sched.ID.String())
	assert.ErrorIs(t, err, presenceerrors.ErrScheduleNotFound)

	rows, err := svc.GetBySchedule(ctx, sched.UnitID.String(), sched.ID.String())
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
