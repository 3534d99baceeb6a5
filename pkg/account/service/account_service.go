package service

import (
	"context"

	"agri/entities"
	"agri/pkg/validate"
)

type UserService interface {
	List(ctx context.Context) ([]entities.User, error)
	Get(ctx context.Context, id uint) (*entities.User, error)
	Create(ctx context.Context, req UserRequest) (*entities.User, error)
	// Update changes the profile fields; the username is fixed at creation.
	Update(ctx context.Context, id uint, req UserRequest) (*entities.User, error)
	Delete(ctx context.Context, id uint) error
	AssignRole(ctx context.Context, userID, roleID uint) error
	RevokeRole(ctx context.Context, userID, roleID uint) error
	Roles(ctx context.Context, userID uint) ([]entities.Role, error)
}

type RoleService interface {
	List(ctx context.Context) ([]entities.Role, error)
	Get(ctx context.Context, id uint) (*entities.Role, error)
	Create(ctx context.Context, req RoleRequest) (*entities.Role, error)
	Delete(ctx context.Context, id uint) error
	Grant(ctx context.Context, roleID, permissionID uint) error
	Revoke(ctx context.Context, roleID, permissionID uint) error
	Permissions(ctx context.Context, roleID uint) ([]entities.Permission, error)
}

type PermissionService interface {
	List(ctx context.Context) ([]entities.Permission, error)
	Create(ctx context.Context, req PermissionRequest) (*entities.Permission, error)
}

type UserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Status      string `json:"status"`
}

func (r UserRequest) Validate() error {
	c := validate.New().
		Required("username", r.Username).
		MaxLen("username", r.Username, 64).
		MaxLen("display_name", r.DisplayName, 100).
		MaxLen("email", r.Email, 254).
		Email("email", r.Email).
		MaxLen("phone", r.Phone, 32)
	if r.Status != "" {
		c.OneOf("status", r.Status, entities.UserActive, entities.UserDisabled)
	}
	return c.Err()
}

type RoleRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (r RoleRequest) Validate() error {
	return validate.New().
		Required("code", r.Code).
		MaxLen("code", r.Code, 64).
		MaxLen("name", r.Name, 100).
		Err()
}

type PermissionRequest struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (r PermissionRequest) Validate() error {
	return validate.New().
		Required("code", r.Code).
		MaxLen("code", r.Code, 64).
		MaxLen("description", r.Description, 255).
		Err()
}
