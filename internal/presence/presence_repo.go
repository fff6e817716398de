package presence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=presence_repo.go -destination=mock/presence_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *PresenceRecord) error
	FindByUserAndSchedule(ctx context.Context, userID, scheduleID string) (*PresenceRecord, error)
	FindAllByUser(ctx context.Context, userID string) ([]PresenceRecord, error)
	FindAllBySchedule(ctx context.Context, scheduleID string) ([]PresenceRecord, error)
	CancelByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error)
	DeleteByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create adalah satu-satunya jalur tulis record baru. Unique index
// (user_id, schedule_id) menjadi penentu akhir idempotensi: insert
// ganda gagal dengan 23505 dan diterjemahkan service, bukan dicek-dulu
// lalu ditulis terpisah.
func (r *repository) Create(ctx context.Context, p *PresenceRecord) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByUserAndSchedule(ctx context.Context, userID, scheduleID string) (*PresenceRecord, error) {
	var p PresenceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("schedule_id = ?", scheduleID).
		First(&p).Error
	return &p, err
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]PresenceRecord, error) {
	var rows []PresenceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllBySchedule(ctx context.Context, scheduleID string) ([]PresenceRecord, error) {
	var rows []PresenceRecord
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("submitted_at ASC").
		Find(&rows).Error
	return rows, err
}

// CancelByScheduleTx berjalan dalam transaksi pembatalan jadwal milik
// caller agar kedua perubahan commit atau batal bersama.
func (r *repository) CancelByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE presence_records SET status = $2, updated_at = NOW() WHERE schedule_id = $1`,
		scheduleID, StatusCancelled,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) DeleteByScheduleTx(ctx context.Context, tx *sql.Tx, scheduleID string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM presence_records WHERE schedule_id = $1`,
		scheduleID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// IsUniqueViolation mengenali pelanggaran unique constraint postgres.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
