package member

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	membererrors "github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/member/errors"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/contextutil"
	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const MemberOptionsKeyPrefix = "members:options:"

func GetMemberOptionsKey(unitID string) string {
	return MemberOptionsKeyPrefix + unitID
}

//go:generate mockgen -source=member_service.go -destination=mock/member_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, unitID string, req CreateMemberRequest) (MemberResponse, error)
	GetAll(ctx context.Context, unitID string) ([]MemberResponse, error)
	GetOptions(ctx context.Context, unitID string) ([]MemberResponse, error)
	GetByID(ctx context.Context, unitID, id string) (MemberResponse, error)
	Update(ctx context.Context, unitID, id string, req UpdateMemberRequest) (MemberResponse, error)
	Delete(ctx context.Context, unitID, id string) error
}

type service struct {
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(repo Repository, counterRepo counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("member.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("member.service")
	}
	return &service{
		repo:    repo,
		counter: counterRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(
	ctx context.Context,
	unitID string,
	req CreateMemberRequest,
) (MemberResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create member requested",
		zap.String("request_id", rid),
		zap.String("unit_id", unitID),
		zap.String("email", req.Email),
	)

	uid, err := uuid.Parse(unitID)
	if err != nil {
		return MemberResponse{}, membererrors.ErrInvalidUnitID
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return MemberResponse{}, membererrors.ErrInvalidMemberID
	}
	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		s.logger.Warn("create member invalid join_date",
			zap.String("join_date", req.JoinDate),
			zap.Error(err),
		)
		return MemberResponse{}, membererrors.ErrInvalidJoinDate
	}

	if req.MemberNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, unitID, "member_number")
		if err != nil {
			s.logger.Error("create member generate number failed", zap.Error(err))
			return MemberResponse{}, err
		}
		req.MemberNumber = fmt.Sprintf("MBR-%06d", nextVal)
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	m := &Member{
		ID:           uuid.New(),
		UnitID:       uid,
		UserID:       userID,
		FullName:     req.FullName,
		Email:        req.Email,
		MemberNumber: req.MemberNumber,
		Phone:        req.Phone,
		JoinDate:     joinDate,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("create member persist failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, unitID)

	s.logger.Info("create member success",
		zap.String("request_id", rid),
		zap.String("member_id", m.ID.String()),
	)

	return mapToResponse(*m), nil
}

func (s *service) GetAll(ctx context.Context, unitID string) ([]MemberResponse, error) {
	s.logger.Debug("get all members requested", zap.String("unit_id", unitID))
	members, err := s.repo.FindAllByUnit(ctx, unitID)
	if err != nil {
		s.logger.Error("get all members failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(members), nil
}

func (s *service) GetOptions(ctx context.Context, unitID string) ([]MemberResponse, error) {
	cacheKey := GetMemberOptionsKey(unitID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []MemberResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight mencegah stampede saat cache kosong
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		members, err := s.repo.FindAllByUnit(ctx, unitID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(members)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]MemberResponse), nil
}

func (s *service) GetByID(ctx context.Context, unitID, id string) (MemberResponse, error) {
	m, err := s.repo.FindByIDAndUnit(ctx, unitID, id)
	if err != nil {
		s.logger.Error("get member by id failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*m), nil
}

func (s *service) Update(
	ctx context.Context,
	unitID, id string,
	req UpdateMemberRequest,
) (MemberResponse, error) {
	m, err := s.repo.FindByIDAndUnit(ctx, unitID, id)
	if err != nil {
		s.logger.Error("update member fetch existing failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	m.FullName = req.FullName
	m.Email = req.Email
	m.Phone = req.Phone
	if req.Role != "" {
		m.Role = req.Role
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, m); err != nil {
		s.logger.Error("update member persist failed", zap.Error(err))
		return MemberResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, unitID)

	s.logger.Info("update member success", zap.String("member_id", id))

	return mapToResponse(*m), nil
}

func (s *service) Delete(ctx context.Context, unitID, id string) error {
	if err := s.repo.Delete(ctx, unitID, id); err != nil {
		s.logger.Error("delete member failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, unitID)

	s.logger.Info("delete member success", zap.String("member_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, unitID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetMemberOptionsKey(unitID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate member options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(m Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID.String(),
		UnitID:       m.UnitID.String(),
		UserID:       m.UserID.String(),
		FullName:     m.FullName,
		Email:        m.Email,
		MemberNumber: m.MemberNumber,
		Phone:        m.Phone,
		JoinDate:     m.JoinDate.Format("2006-01-02"),
		Role:         m.Role,
		IsActive:     m.IsActive,
	}
}

func mapToListResponse(members []Member) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i, m := range members {
		res[i] = mapToResponse(m)
	}
	return res
}
