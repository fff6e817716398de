package schedule

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Schedule) error
	FindByID(ctx context.Context, id string) (*Schedule, error)
	FindAllByUnit(ctx context.Context, unitID string) ([]Schedule, error)
	FindActiveByUnit(ctx context.Context, unitID string) ([]Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, status string) (int64, error)
	DeleteTx(ctx context.Context, tx *sql.Tx, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Create insert lewat *sql.Tx kalau repository sedang memegang
// transaksi caller, supaya baris jadwal dan baris outbox commit bersama.
func (r *repository) Create(ctx context.Context, s *Schedule) error {
	if r.tx == nil {
		return r.db.WithContext(ctx).Create(s).Error
	}

	query := `
INSERT INTO schedules (
	id, unit_id, title, schedule_date,
	start_time, end_time, open_time, close_time,
	tolerance_minutes, latitude, longitude, radius_meters,
	meeting_url, status, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
`
	_, err := r.tx.ExecContext(ctx, query,
		s.ID, s.UnitID, s.Title, s.ScheduleDate,
		s.StartTime, s.EndTime, s.OpenTime, s.CloseTime,
		s.ToleranceMinutes, s.Latitude, s.Longitude, s.RadiusMeters,
		s.MeetingURL, s.Status, s.CreatedBy,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Schedule, error) {
	var s Schedule
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	return &s, err
}

func (r *repository) FindAllByUnit(ctx context.Context, unitID string) ([]Schedule, error) {
	var rows []Schedule
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("schedule_date DESC, start_time DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveByUnit(ctx context.Context, unitID string) ([]Schedule, error) {
	var rows []Schedule
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Where("status <> ?", StatusCancelled).
		Order("schedule_date DESC, start_time DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, s *Schedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// UpdateStatusTx berjalan di dalam transaksi caller agar perubahan
// status jadwal dan cascade presensi commit bersama.
func (r *repository) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id, status string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE schedules SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) DeleteTx(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
