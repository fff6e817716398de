package rbac

import (
	"sync"

	"github.com/siaksibemstikomcrb/siaksi-project-sub000/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadUnitPolicy(unitID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadUnitPolicy(unitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadUnitPolicyUnlocked(unitID)
}

func (s *service) loadUnitPolicyUnlocked(unitID string) error {
	s.enforcer.ClearPolicy()

	memberRoles, err := s.repo.GetMemberRoles(unitID)
	if err != nil {
		return err
	}

	for _, mr := range memberRoles {
		if _, err := s.enforcer.AddGroupingPolicy(mr.MemberID, mr.RoleID, unitID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(unitID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, unitID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("unit policy loaded",
		zap.String("unit_id", unitID),
		zap.Int("member_roles", len(memberRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadUnitPolicyUnlocked(req.UnitID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.MemberID,
		req.UnitID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("member_id", req.MemberID),
			zap.String("unit_id", req.UnitID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("member_id", req.MemberID),
		zap.String("unit_id", req.UnitID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
