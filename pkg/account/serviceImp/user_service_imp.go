package serviceImp

import (
	"context"
	"strings"

	"agri/entities"
	"agri/pkg/account/repository"
	"agri/pkg/account/service"
	"agri/pkg/apperr"
	"agri/pkg/store"
)

type userSvc struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	userRoles repository.UserRoleRepository
	tx        store.Transactor
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository, userRoles repository.UserRoleRepository, tx store.Transactor) service.UserService {
	return &userSvc{users: users, roles: roles, userRoles: userRoles, tx: tx}
}

func (s *userSvc) List(ctx context.Context) ([]entities.User, error) {
	out, err := s.users.FindAll(ctx)
	return out, apperr.FromStore(err, "user")
}

func (s *userSvc) Get(ctx context.Context, id uint) (*entities.User, error) {
	u, err := findUser(ctx, s.users, id)
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return u, nil
}

func (s *userSvc) Create(ctx context.Context, req service.UserRequest) (*entities.User, error) {
	req = normalizeUser(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	u := &entities.User{Username: req.Username, Status: entities.UserActive}
	applyProfile(u, req)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		other, err := s.users.FindByUsername(ctx, u.Username)
		if err != nil {
			return err
		}
		if other != nil {
			return apperr.Conflictf("username %q already exists", u.Username)
		}
		return s.users.Save(ctx, u)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return u, nil
}

func (s *userSvc) Update(ctx context.Context, id uint, req service.UserRequest) (*entities.User, error) {
	req = normalizeUser(req)
	var out *entities.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := findUser(ctx, s.users, id)
		if err != nil {
			return err
		}
		if req.Username == "" {
			req.Username = u.Username
		}
		if err := req.Validate(); err != nil {
			return err
		}
		if req.Username != u.Username {
			return apperr.Invalid("username", "cannot be changed")
		}
		applyProfile(u, req)
		if err := s.users.Save(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return out, nil
}

func (s *userSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := findUser(ctx, s.users, id); err != nil {
			return err
		}
		if err := s.userRoles.DeleteByUser(ctx, id); err != nil {
			return err
		}
		return s.users.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "user")
}

// AssignRole is idempotent: assigning a held role succeeds without a new row.
func (s *userSvc) AssignRole(ctx context.Context, userID, roleID uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := findUser(ctx, s.users, userID); err != nil {
			return err
		}
		if _, err := findRole(ctx, s.roles, roleID); err != nil {
			return err
		}
		link, err := s.userRoles.FindByUserAndRole(ctx, userID, roleID)
		if err != nil || link != nil {
			return err
		}
		return s.userRoles.Save(ctx, &entities.UserRole{UserID: userID, RoleID: roleID})
	})
	return apperr.FromStore(err, "user role")
}

func (s *userSvc) RevokeRole(ctx context.Context, userID, roleID uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		link, err := s.userRoles.FindByUserAndRole(ctx, userID, roleID)
		if err != nil {
			return err
		}
		if link == nil {
			return apperr.NotFoundf("user %d does not hold role %d", userID, roleID)
		}
		return s.userRoles.DeleteByID(ctx, link.ID)
	})
	return apperr.FromStore(err, "user role")
}

func (s *userSvc) Roles(ctx context.Context, userID uint) ([]entities.Role, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}
	out, err := s.userRoles.RolesOf(ctx, userID)
	if out == nil && err == nil {
		out = []entities.Role{}
	}
	return out, apperr.FromStore(err, "user role")
}

func normalizeUser(req service.UserRequest) service.UserRequest {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	return req
}

func applyProfile(u *entities.User, req service.UserRequest) {
	u.DisplayName = strings.TrimSpace(req.DisplayName)
	u.Email = req.Email
	u.Phone = strings.TrimSpace(req.Phone)
	if req.Status != "" {
		u.Status = req.Status
	}
}

func findUser(ctx context.Context, repo repository.UserRepository, id uint) (*entities.User, error) {
	u, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFoundf("user %d not found", id)
	}
	return u, nil
}
