package member

import (
	"context"
	"database/sql"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=member_repo.go -destination=mock/member_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *Member) error
	FindAllByUnit(ctx context.Context, unitID string) ([]Member, error)
	FindByIDAndUnit(ctx context.Context, unitID string, id string) (*Member, error)
	FindByUserID(ctx context.Context, userID string) (*Member, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, unitID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, m *Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindAllByUnit(ctx context.Context, unitID string) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(unitID)).
		Order("full_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindByIDAndUnit(ctx context.Context, unitID string, id string) (*Member, error) {
	var m Member
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(unitID)).
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Member, error) {
	var m Member
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	return &m, err
}

func (r *repository) Update(ctx context.Context, m *Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *repository) Delete(ctx context.Context, unitID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(unitID)).
		Delete(&Member{}, "id = ?", id).Error
}
