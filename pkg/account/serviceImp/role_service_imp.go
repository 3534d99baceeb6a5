package serviceImp

import (
	"context"
	"strings"

	"agri/entities"
	"agri/pkg/account/repository"
	"agri/pkg/account/service"
	"agri/pkg/apperr"
	"agri/pkg/codes"
	"agri/pkg/store"
)

type roleSvc struct {
	roles       repository.RoleRepository
	permissions repository.PermissionRepository
	grants      repository.RolePermissionRepository
	tx          store.Transactor
}

func NewRoleService(roles repository.RoleRepository, permissions repository.PermissionRepository, grants repository.RolePermissionRepository, tx store.Transactor) service.RoleService {
	return &roleSvc{roles: roles, permissions: permissions, grants: grants, tx: tx}
}

func (s *roleSvc) List(ctx context.Context) ([]entities.Role, error) {
	out, err := s.roles.FindAll(ctx)
	return out, apperr.FromStore(err, "role")
}

func (s *roleSvc) Get(ctx context.Context, id uint) (*entities.Role, error) {
	r, err := findRole(ctx, s.roles, id)
	if err != nil {
		return nil, apperr.FromStore(err, "role")
	}
	return r, nil
}

func (s *roleSvc) Create(ctx context.Context, req service.RoleRequest) (*entities.Role, error) {
	req.Code = codes.Normalize(req.Code)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r := &entities.Role{Code: req.Code, Name: strings.TrimSpace(req.Name)}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		other, err := s.roles.FindByCode(ctx, r.Code)
		if err != nil {
			return err
		}
		if other != nil {
			return apperr.Conflictf("role %q already exists", r.Code)
		}
		return s.roles.Save(ctx, r)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "role")
	}
	return r, nil
}

func (s *roleSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := findRole(ctx, s.roles, id); err != nil {
			return err
		}
		used, err := s.roles.IsAssigned(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return apperr.Conflictf("role %d is assigned to users", id)
		}
		if err := s.grants.DeleteByRole(ctx, id); err != nil {
			return err
		}
		return s.roles.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "role")
}

// Grant is idempotent like AssignRole.
func (s *roleSvc) Grant(ctx context.Context, roleID, permissionID uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := findRole(ctx, s.roles, roleID); err != nil {
			return err
		}
		p, err := s.permissions.FindByID(ctx, permissionID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.NotFoundf("permission %d not found", permissionID)
		}
		link, err := s.grants.FindByRoleAndPermission(ctx, roleID, permissionID)
		if err != nil || link != nil {
			return err
		}
		return s.grants.Save(ctx, &entities.RolePermission{RoleID: roleID, PermissionID: permissionID})
	})
	return apperr.FromStore(err, "role permission")
}

func (s *roleSvc) Revoke(ctx context.Context, roleID, permissionID uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		link, err := s.grants.FindByRoleAndPermission(ctx, roleID, permissionID)
		if err != nil {
			return err
		}
		if link == nil {
			return apperr.NotFoundf("role %d does not hold permission %d", roleID, permissionID)
		}
		return s.grants.DeleteByID(ctx, link.ID)
	})
	return apperr.FromStore(err, "role permission")
}

func (s *roleSvc) Permissions(ctx context.Context, roleID uint) ([]entities.Permission, error) {
	if _, err := s.Get(ctx, roleID); err != nil {
		return nil, err
	}
	out, err := s.grants.PermissionsOf(ctx, roleID)
	if out == nil && err == nil {
		out = []entities.Permission{}
	}
	return out, apperr.FromStore(err, "role permission")
}

func findRole(ctx context.Context, repo repository.RoleRepository, id uint) (*entities.Role, error) {
	r, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFoundf("role %d not found", id)
	}
	return r, nil
}

type permissionSvc struct {
	repo repository.PermissionRepository
	tx   store.Transactor
}

func NewPermissionService(repo repository.PermissionRepository, tx store.Transactor) service.PermissionService {
	return &permissionSvc{repo: repo, tx: tx}
}

func (s *permissionSvc) List(ctx context.Context) ([]entities.Permission, error) {
	out, err := s.repo.FindAll(ctx)
	return out, apperr.FromStore(err, "permission")
}

func (s *permissionSvc) Create(ctx context.Context, req service.PermissionRequest) (*entities.Permission, error) {
	req.Code = codes.Normalize(req.Code)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := &entities.Permission{Code: req.Code, Description: strings.TrimSpace(req.Description)}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		other, err := s.repo.FindByCode(ctx, p.Code)
		if err != nil {
			return err
		}
		if other != nil {
			return apperr.Conflictf("permission %q already exists", p.Code)
		}
		return s.repo.Save(ctx, p)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "permission")
	}
	return p, nil
}
