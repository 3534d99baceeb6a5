package serviceImp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/apperr"
	regionRepoImp "agri/pkg/region/repositoryImp"
	"agri/pkg/setting/repositoryImp"
	"agri/pkg/setting/service"
	"agri/pkg/store"
	"agri/pkg/store/storetest"
)

func newService(t *testing.T) (service.SettingService, *gorm.DB) {
	db := storetest.Open(t)
	return NewSettingService(repositoryImp.New(db), regionRepoImp.New(db), store.NewTransactor(db)), db
}

func TestGetDefaultsWithoutRow(t *testing.T) {
	svc, db := newService(t)
	st, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.ID)
	assert.Equal(t, entities.SecurityStandard, st.SecurityStrategy)

	var n int64
	require.NoError(t, db.Model(&entities.SystemSetting{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateUpsertsSingleRow(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t)
	region := entities.Region{Code: "TH-40", Name: "Khon Kaen", Level: 1}
	require.NoError(t, db.Create(&region).Error)

	first, err := svc.Update(ctx, service.SettingRequest{NotifyEmail: "ops@example.org", SecurityStrategy: "strict", DefaultRegionID: &region.ID})
	require.NoError(t, err)
	second, err := svc.Update(ctx, service.SettingRequest{NotifyEmail: "ops@example.org", PendingChangeCount: 3})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, entities.SecurityStrict, second.SecurityStrategy)
	assert.Nil(t, second.DefaultRegionID)

	var n int64
	require.NoError(t, db.Model(&entities.SystemSetting{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.PendingChangeCount)
}

func TestGetPrefersLowestID(t *testing.T) {
	svc, db := newService(t)
	require.NoError(t, db.Create(&entities.SystemSetting{ID: 7, NotifyEmail: "b@example.org"}).Error)
	require.NoError(t, db.Create(&entities.SystemSetting{ID: 3, NotifyEmail: "a@example.org"}).Error)
	st, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.ID)
}

func TestUpdateValidation(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Update(context.Background(), service.SettingRequest{NotifyEmail: "not-an-email", PendingChangeCount: -1, SecurityStrategy: "LAX"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"notify_email", "pending_change_count", "security_strategy"}, ae.Fields())
}

func TestUpdateUnknownRegion(t *testing.T) {
	svc, _ := newService(t)
	id := uint(99)
	_, err := svc.Update(context.Background(), service.SettingRequest{DefaultRegionID: &id})
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}
