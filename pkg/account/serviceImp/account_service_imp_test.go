package serviceImp

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/account/repositoryImp"
	"agri/pkg/account/service"
	"agri/pkg/apperr"
	"agri/pkg/store"
	"agri/pkg/store/storetest"
)

type accounts struct {
	db    *gorm.DB
	users service.UserService
	roles service.RoleService
	perms service.PermissionService
}

func newAccounts(t *testing.T) *accounts {
	db := storetest.Open(t)
	tx := store.NewTransactor(db)
	roleRepo := repositoryImp.NewRoleRepository(db)
	permRepo := repositoryImp.NewPermissionRepository(db)
	return &accounts{
		db:    db,
		users: NewUserService(repositoryImp.NewUserRepository(db), roleRepo, repositoryImp.NewUserRoleRepository(db), tx),
		roles: NewRoleService(roleRepo, permRepo, repositoryImp.NewRolePermissionRepository(db), tx),
		perms: NewPermissionService(permRepo, tx),
	}
}

func TestUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)
	u, err := a.users.Create(ctx, service.UserRequest{Username: "somchai", DisplayName: "Somchai", Email: "somchai@example.org"})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, entities.UserActive, u.Status)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := a.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	up, err := a.users.Update(ctx, u.ID, service.UserRequest{DisplayName: "Somchai P.", Status: "disabled"})
	require.NoError(t, err)
	assert.Equal(t, "somchai", up.Username)
	assert.Equal(t, entities.UserDisabled, up.Status)

	_, err = a.users.Update(ctx, u.ID, service.UserRequest{Username: "other"})
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
}

func TestUserValidation(t *testing.T) {
	a := newAccounts(t)
	_, err := a.users.Create(context.Background(), service.UserRequest{Email: "nope", Status: "BANNED"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"username", "email", "status"}, ae.Fields())
}

func TestConcurrentDuplicateUsernames(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)

	const n = 5
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.users.Create(ctx, service.UserRequest{Username: "malee"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.Equal(t, apperr.Conflict, apperr.CodeOf(err), err.Error())
	}
	assert.Equal(t, 1, ok)
}

func TestRoleCodesAreUpperCasedAndUnique(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)
	r, err := a.roles.Create(ctx, service.RoleRequest{Code: " analyst ", Name: "Analyst"})
	require.NoError(t, err)
	assert.Equal(t, "ANALYST", r.Code)

	_, err = a.roles.Create(ctx, service.RoleRequest{Code: "Analyst"})
	assert.Equal(t, apperr.Conflict, apperr.CodeOf(err))

	raw := a.db.Create(&entities.Role{Code: "ANALYST"}).Error
	require.Error(t, raw)
	assert.Equal(t, apperr.Conflict, apperr.CodeOf(apperr.FromStore(raw, "role")))
}

func TestAssignAndRevokeRole(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)
	u, err := a.users.Create(ctx, service.UserRequest{Username: "niran"})
	require.NoError(t, err)
	admin, err := a.roles.Create(ctx, service.RoleRequest{Code: "admin"})
	require.NoError(t, err)

	require.NoError(t, a.users.AssignRole(ctx, u.ID, admin.ID))
	require.NoError(t, a.users.AssignRole(ctx, u.ID, admin.ID))
	roles, err := a.users.Roles(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "ADMIN", roles[0].Code)

	assert.Equal(t, apperr.Conflict, apperr.CodeOf(a.roles.Delete(ctx, admin.ID)))

	require.NoError(t, a.users.RevokeRole(ctx, u.ID, admin.ID))
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(a.users.RevokeRole(ctx, u.ID, admin.ID)))
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(a.users.AssignRole(ctx, u.ID, 404)))
	require.NoError(t, a.roles.Delete(ctx, admin.ID))
}

func TestDeleteUserDropsRoleLinks(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)
	u, err := a.users.Create(ctx, service.UserRequest{Username: "pim"})
	require.NoError(t, err)
	r, err := a.roles.Create(ctx, service.RoleRequest{Code: "viewer"})
	require.NoError(t, err)
	require.NoError(t, a.users.AssignRole(ctx, u.ID, r.ID))

	require.NoError(t, a.users.Delete(ctx, u.ID))
	var n int64
	require.NoError(t, a.db.Model(&entities.UserRole{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(a.users.Delete(ctx, u.ID)))
}

func TestGrantPermissions(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)
	r, err := a.roles.Create(ctx, service.RoleRequest{Code: "editor"})
	require.NoError(t, err)
	p1, err := a.perms.Create(ctx, service.PermissionRequest{Code: "report:write"})
	require.NoError(t, err)
	assert.Equal(t, "REPORT:WRITE", p1.Code)
	p2, err := a.perms.Create(ctx, service.PermissionRequest{Code: "price:import"})
	require.NoError(t, err)
	_, err = a.perms.Create(ctx, service.PermissionRequest{Code: "Price:Import"})
	assert.Equal(t, apperr.Conflict, apperr.CodeOf(err))

	require.NoError(t, a.roles.Grant(ctx, r.ID, p1.ID))
	require.NoError(t, a.roles.Grant(ctx, r.ID, p2.ID))
	perms, err := a.roles.Permissions(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, "PRICE:IMPORT", perms[0].Code)

	require.NoError(t, a.roles.Revoke(ctx, r.ID, p2.ID))
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(a.roles.Revoke(ctx, r.ID, p2.ID)))
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(a.roles.Grant(ctx, r.ID, 999)))

	require.NoError(t, a.roles.Delete(ctx, r.ID))
	var n int64
	require.NoError(t, a.db.Model(&entities.RolePermission{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAccountAbsentIDs(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)
	_, err := a.users.Get(ctx, 5)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	_, err = a.users.Update(ctx, 5, service.UserRequest{})
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	_, err = a.users.Roles(ctx, 5)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	_, err = a.roles.Get(ctx, 5)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	_, err = a.roles.Permissions(ctx, 5)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(a.roles.Delete(ctx, 5)))
}
