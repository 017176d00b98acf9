package rbac

import (
	"log"
	"sync"

	"go-timesheet/internal/domain"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(companyID)
}

func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	// Load grouping policy
	userRoles, err := s.repo.GetUserRoles(companyID)
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: company_id=%s user_roles=%d", companyID, len(userRoles))

	for _, ur := range userRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			ur.UserID,
			ur.RoleID,
			companyID,
		)
		if err != nil {
			return err
		}
	}

	// Load permission policy
	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}
	log.Printf("rbac load policy: company_id=%s role_permissions=%d", companyID, len(rolePerms))

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.RoleID,
			companyID,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.UserID,
		req.CompanyID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		log.Printf("rbac enforce result: user_id=%s company_id=%s resource=%s action=%s err=%v", req.UserID, req.CompanyID, req.Resource, req.Action, err)
		return false, err
	}

	log.Printf("rbac enforce result: user_id=%s company_id=%s resource=%s action=%s allowed=%t",
		req.UserID, req.CompanyID, req.Resource, req.Action, allowed)

	return allowed, nil
}
