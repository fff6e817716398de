package schedule

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/events"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/messaging/kafka"
	scheduleerrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/schedule/errors"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeScheduleRepo struct {
	createFn           func(ctx context.Context, s *Schedule) error
	findByIDFn         func(ctx context.Context, id string) (*Schedule, error)
	findAllByUnitFn    func(ctx context.Context, unitID string) ([]Schedule, error)
	findActiveByUnitFn func(ctx context.Context, unitID string) ([]Schedule, error)
	updateFn           func(ctx context.Context, s *Schedule) error
}

func (f *fakeScheduleRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeScheduleRepo) Create(ctx context.Context, s *Schedule) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeScheduleRepo) FindByID(ctx context.Context, id string) (*Schedule, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScheduleRepo) FindAllByUnit(ctx context.Context, unitID string) ([]Schedule, error) {
	if f.findAllByUnitFn != nil {
		return f.findAllByUnitFn(ctx, unitID)
	}
	return nil, nil
}

func (f *fakeScheduleRepo) FindActiveByUnit(ctx context.Context, unitID string) ([]Schedule, error) {
	if f.findActiveByUnitFn != nil {
		return f.findActiveByUnitFn(ctx, unitID)
	}
	return nil, nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, s *Schedule) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, s)
	}
	return nil
}

// Metode Tx menjalankan SQL yang sama dengan implementasi asli agar
// ekspektasi sqlmock terhadap transaksi tetap teruji.
func (f *fakeScheduleRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, status string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE schedules SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (f *fakeScheduleRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type fakePresenceStore struct {
	cancelErr error
	deleteErr error
}

func (f *fakePresenceStore) CancelByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error) {
	if f.cancelErr != nil {
		return 0, f.cancelErr
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE presence_records SET status = $2, updated_at = NOW() WHERE schedule_id = $1`,
		scheduleID, "CANCELLED",
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (f *fakePresenceStore) DeleteByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM presence_records WHERE schedule_id = $1`,
		scheduleID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// capturedArg mencocokkan argumen apapun sambil menyimpan nilainya
// supaya isi payload outbox bisa diperiksa setelah eksekusi.
type capturedArg struct {
	dst *[]byte
}

func (c capturedArg) Match(v driver.Value) bool {
	b, ok := v.([]byte)
	if !ok {
		return false
	}
	*c.dst = append([]byte(nil), b...)
	return true
}

func fixedCalendar(t *testing.T, now time.Time) *clock.Calendar {
	t.Helper()
	cal, err := clock.NewCalendar("")
	assert.NoError(t, err)
	return cal.WithNow(func() time.Time { return now })
}

func activeSchedule(unitID uuid.UUID) *Schedule {
	return &Schedule{
		ID:           uuid.New(),
		UnitID:       unitID,
		Title:        "Latihan Rutin",
		ScheduleDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "11:00",
		OpenTime:     "08:45",
		CloseTime:    "11:00",
		Status:       StatusActive,
		CreatedBy:    uuid.New(),
	}
}

func TestService_Cancel_CascadesInOneTransaction(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	unitID := uuid.New()
	sched := activeSchedule(unitID)
	ctx := context.Background()

	repo := &fakeScheduleRepo{
		findByIDFn: func(ctx context.Context, id string) (*Schedule, error) { return sched, nil },
	}

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())

	svc := NewService(db, repo, &fakePresenceStore{}, nil, fixedCalendar(t, now), nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedules").
		WithArgs(sched.ID.String(), StatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE presence_records").
		WithArgs(sched.ID.String(), "CANCELLED").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	resp, err := svc.Cancel(ctx, unitID.String(), sched.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Cancel_RollsBackWhenCascadeFails(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	unitID := uuid.New()
	sched := activeSchedule(unitID)
	ctx := context.Background()

	repo := &fakeScheduleRepo{
		findByIDFn: func(ctx context.Context, id string) (*Schedule, error) { return sched, nil },
	}
	presence := &fakePresenceStore{cancelErr: errors.New("deadlock detected")}

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())

	svc := NewService(db, repo, presence, nil, fixedCalendar(t, now), nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE schedules").
		WithArgs(sched.ID.String(), StatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	_, err := svc.Cancel(ctx, unitID.String(), sched.ID.String())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	unitID := uuid.New()
	sched := activeSchedule(unitID)
	sched.Status = StatusCancelled
	ctx := context.Background()

	repo := &fakeScheduleRepo{
		findByIDFn: func(ctx context.Context, id string) (*Schedule, error) { return sched, nil },
	}

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())

	svc := NewService(db, repo, &fakePresenceStore{}, nil, fixedCalendar(t, now), nil)

	_, err := svc.Cancel(ctx, unitID.String(), sched.ID.String())
	assert.ErrorIs(t, err, scheduleerrors.ErrScheduleCancelled)
}

func TestService_Cancel_OtherUnitNotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	sched := activeSchedule(uuid.New())
	ctx := context.Background()

	repo := &fakeScheduleRepo{
		findByIDFn: func(ctx context.Context, id string) (*Schedule, error) { return sched, nil },
	}

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, cal.Location())

	svc := NewService(db, repo, &fakePresenceStore{}, nil, fixedCalendar(t, now), nil)

	_, err := svc.Cancel(ctx, uuid.NewString(), sched.ID.String())
	assert.ErrorIs(t, err, scheduleerrors.ErrScheduleNotFound)
}

// Insert jadwal dan insert outbox harus lewat koneksi transaksi yang
// sama; repository dan outbox asli dipakai di sini supaya keduanya
// benar-benar tercatat di antara Begin dan Commit sqlmock.
func TestService_Create_QueuesOutboxAnnouncementInSameTx(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	unitID := uuid.New()
	actorID := uuid.New()
	ctx := context.Background()

	repo := NewRepository(nil)
	outbox := kafka.NewOutboxRepository(db)

	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectDel(GetUnitSchedulesKey(unitID.String())).SetVal(1)

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, cal.Location())

	svc := NewService(db, repo, &fakePresenceStore{}, outbox, fixedCalendar(t, now), rdb)

	var payload []byte
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), "schedule", sqlmock.AnyArg(),
			"schedule_created", events.ScheduleCreatedTopic,
			capturedArg{dst: &payload}, kafka.OutboxStatusPending,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Create(ctx, unitID.String(), actorID.String(), CreateScheduleRequest{
		Title:        "Musyawarah Anggota",
		ScheduleDate: "2026-03-10",
		StartTime:    "09:00",
		EndTime:      "11:00",
		OpenTime:     "08:45",
		CloseTime:    "11:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, resp.Status)
	assert.Equal(t, LifecycleUpcoming, resp.Lifecycle)

	var event events.ScheduleCreatedEvent
	assert.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "Musyawarah Anggota", event.Title)
	assert.Equal(t, resp.ID, event.ScheduleID)

	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

// Kegagalan insert outbox harus ikut membatalkan insert jadwal.
func TestService_Create_RollsBackScheduleWhenOutboxFails(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	unitID := uuid.New()
	actorID := uuid.New()
	ctx := context.Background()

	repo := NewRepository(nil)
	outbox := kafka.NewOutboxRepository(db)

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, cal.Location())

	svc := NewService(db, repo, &fakePresenceStore{}, outbox, fixedCalendar(t, now), nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.Create(ctx, unitID.String(), actorID.String(), CreateScheduleRequest{
		Title:        "Musyawarah Anggota",
		ScheduleDate: "2026-03-10",
		StartTime:    "09:00",
		EndTime:      "11:00",
		OpenTime:     "08:45",
		CloseTime:    "11:00",
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_Validation(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	cal, _ := clock.NewCalendar("")
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, cal.Location())
	svc := NewService(db, &fakeScheduleRepo{}, &fakePresenceStore{}, nil, fixedCalendar(t, now), nil)

	unitID := uuid.NewString()
	actorID := uuid.NewString()
	lat := -6.2

	base := CreateScheduleRequest{
		Title:        "Kajian Rutin",
		ScheduleDate: "2026-03-10",
		StartTime:    "09:00",
		EndTime:      "11:00",
		OpenTime:     "08:45",
		CloseTime:    "11:00",
	}

	t.Run("bad date", func(t *testing.T) {
		req := base
		req.ScheduleDate = "10-03-2026"
		_, err := svc.Create(context.Background(), unitID, actorID, req)
		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidDateFormat)
	})

	t.Run("bad time", func(t *testing.T) {
		req := base
		req.OpenTime = "8.45"
		_, err := svc.Create(context.Background(), unitID, actorID, req)
		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidTimeFormat)
	})

	t.Run("latitude without longitude", func(t *testing.T) {
		req := base
		req.Latitude = &lat
		_, err := svc.Create(context.Background(), unitID, actorID, req)
		assert.ErrorIs(t, err, scheduleerrors.ErrGeofenceIncomplete)
	})

	t.Run("bad unit id", func(t *testing.T) {
		_, err := svc.Create(context.Background(), "not-a-uuid", actorID, base)
		assert.ErrorIs(t, err, scheduleerrors.ErrInvalidUnitID)
	})
}

func TestService_GetAll_RecomputesLifecycleFromCachedRows(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	unitID := uuid.New()
	sched := activeSchedule(unitID)

	rows, _ := json.Marshal([]Schedule{*sched})
	rdb, rmock := redismock.NewClientMock()
	rmock.ExpectGet(GetUnitSchedulesKey(unitID.String())).SetVal(string(rows))

	cal, _ := clock.NewCalendar("")
	// Di tengah jam kegiatan: baris cache tetap menghasilkan ONGOING.
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, cal.Location())

	svc := NewService(db, &fakeScheduleRepo{}, &fakePresenceStore{}, nil, fixedCalendar(t, now), rdb)

	resp, err := svc.GetAll(context.Background(), unitID.String())
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, LifecycleOngoing, resp[0].Lifecycle)
	assert.NoError(t, rmock.ExpectationsWereMet())
}
