package repository

import (
	"context"

	"agri/entities"
	"agri/pkg/store"
)

type UserRepository interface {
	store.Repository[entities.User]
	FindByUsername(ctx context.Context, username string) (*entities.User, error)
}

type RoleRepository interface {
	store.Repository[entities.Role]
	FindByCode(ctx context.Context, code string) (*entities.Role, error)
	// IsAssigned reports whether any user holds the role.
	IsAssigned(ctx context.Context, roleID uint) (bool, error)
}

type PermissionRepository interface {
	store.Repository[entities.Permission]
	FindByCode(ctx context.Context, code string) (*entities.Permission, error)
}

type UserRoleRepository interface {
	store.Repository[entities.UserRole]
	FindByUserAndRole(ctx context.Context, userID, roleID uint) (*entities.UserRole, error)
	RolesOf(ctx context.Context, userID uint) ([]entities.Role, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

type RolePermissionRepository interface {
	store.Repository[entities.RolePermission]
	FindByRoleAndPermission(ctx context.Context, roleID, permissionID uint) (*entities.RolePermission, error)
	PermissionsOf(ctx context.Context, roleID uint) ([]entities.Permission, error)
	DeleteByRole(ctx context.Context, roleID uint) error
}
