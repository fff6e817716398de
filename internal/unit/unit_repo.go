package unit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/unit_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, unit *Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	GetBySlug(ctx context.Context, slug string) (*Unit, error)
	GetAll(ctx context.Context) ([]Unit, error)
	Update(ctx context.Context, unit *Unit) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, unit *Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Unit, error) {
	var unit Unit
	err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error
	return &unit, err
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Unit, error) {
	var unit Unit
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&unit).Error
	return &unit, err
}

func (r *repository) GetAll(ctx context.Context) ([]Unit, error) {
	var units []Unit
	err := r.db.WithContext(ctx).Order("name ASC").Find(&units).Error
	return units, err
}

func (r *repository) Update(ctx context.Context, unit *Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}
