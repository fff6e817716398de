package unit

import (
	"context"
	"errors"
	"strings"

	uniterrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/unit/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/unit_service_mock.go -package=mock . Service
type Service interface {
	Create(ctx context.Context, req CreateUnitRequest) (*UnitResponse, error)
	GetByID(ctx context.Context, id string) (*UnitResponse, error)
	GetAll(ctx context.Context) ([]UnitResponse, error)
	Update(ctx context.Context, id string, req UpdateUnitRequest) (*UnitResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateUnitRequest) (*UnitResponse, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, uniterrors.ErrUnitAlreadyExists
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	u := &Unit{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		Email:       req.Email,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.mapToResponse(u), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*UnitResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, uniterrors.ErrInvalidUnitID
	}

	u, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uniterrors.ErrUnitNotFound
		}
		return nil, err
	}

	return s.mapToResponse(u), nil
}

func (s *service) GetAll(ctx context.Context) ([]UnitResponse, error) {
	units, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UnitResponse, 0, len(units))
	for i := range units {
		result = append(result, *s.mapToResponse(&units[i]))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUnitRequest) (*UnitResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, uniterrors.ErrInvalidUnitID
	}

	u, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, uniterrors.ErrUnitNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Description != "" {
		u.Description = req.Description
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return s.mapToResponse(u), nil
}

func (s *service) mapToResponse(u *Unit) *UnitResponse {
	return &UnitResponse{
		ID:          u.ID.String(),
		Name:        u.Name,
		Slug:        u.Slug,
		Description: u.Description,
		Email:       u.Email,
		IsActive:    u.IsActive,
	}
}
