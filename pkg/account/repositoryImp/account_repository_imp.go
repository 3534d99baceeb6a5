package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/account/repository"
	"agri/pkg/store"
)

type userRepo struct {
	*store.GormRepository[entities.User]
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{store.NewGormRepository[entities.User](db)}
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return store.First[entities.User](r.DB(ctx), "username = ?", username)
}

type roleRepo struct {
	*store.GormRepository[entities.Role]
}

func NewRoleRepository(db *gorm.DB) repository.RoleRepository {
	return &roleRepo{store.NewGormRepository[entities.Role](db)}
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*entities.Role, error) {
	return store.First[entities.Role](r.DB(ctx), "code = ?", code)
}

func (r *roleRepo) IsAssigned(ctx context.Context, roleID uint) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entities.UserRole{}).Where("role_id = ?", roleID).Limit(1).Count(&n).Error
	return n > 0, err
}

type permissionRepo struct {
	*store.GormRepository[entities.Permission]
}

func NewPermissionRepository(db *gorm.DB) repository.PermissionRepository {
	return &permissionRepo{store.NewGormRepository[entities.Permission](db)}
}

func (r *permissionRepo) FindByCode(ctx context.Context, code string) (*entities.Permission, error) {
	return store.First[entities.Permission](r.DB(ctx), "code = ?", code)
}

type userRoleRepo struct {
	*store.GormRepository[entities.UserRole]
}

func NewUserRoleRepository(db *gorm.DB) repository.UserRoleRepository {
	return &userRoleRepo{store.NewGormRepository[entities.UserRole](db)}
}

func (r *userRoleRepo) FindByUserAndRole(ctx context.Context, userID, roleID uint) (*entities.UserRole, error) {
	return store.First[entities.UserRole](r.DB(ctx), "user_id = ? AND role_id = ?", userID, roleID)
}

func (r *userRoleRepo) RolesOf(ctx context.Context, userID uint) ([]entities.Role, error) {
	var out []entities.Role
	err := r.DB(ctx).Model(&entities.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.code ASC").
		Find(&out).Error
	return out, err
}

func (r *userRoleRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return r.DB(ctx).Where("user_id = ?", userID).Delete(&entities.UserRole{}).Error
}

type rolePermissionRepo struct {
	*store.GormRepository[entities.RolePermission]
}

func NewRolePermissionRepository(db *gorm.DB) repository.RolePermissionRepository {
	return &rolePermissionRepo{store.NewGormRepository[entities.RolePermission](db)}
}

func (r *rolePermissionRepo) FindByRoleAndPermission(ctx context.Context, roleID, permissionID uint) (*entities.RolePermission, error) {
	return store.First[entities.RolePermission](r.DB(ctx), "role_id = ? AND permission_id = ?", roleID, permissionID)
}

func (r *rolePermissionRepo) PermissionsOf(ctx context.Context, roleID uint) ([]entities.Permission, error) {
	var out []entities.Permission
	err := r.DB(ctx).Model(&entities.Permission{}).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.code ASC").
		Find(&out).Error
	return out, err
}

func (r *rolePermissionRepo) DeleteByRole(ctx context.Context, roleID uint) error {
	return r.DB(ctx).Where("role_id = ?", roleID).Delete(&entities.RolePermission{}).Error
}
