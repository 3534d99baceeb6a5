package serviceImp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/blob"
	forecastRepoImp "agri/pkg/forecast/repositoryImp"
	"agri/pkg/report/repositoryImp"
	"agri/pkg/report/service"
	"agri/pkg/store"
	"agri/pkg/store/storetest"
)

type brokenStore struct{}

func (brokenStore) Put(context.Context, string, string, io.Reader) (string, error) {
	return "", apperr.Infra(errors.New("disk full"), "blob store unavailable")
}

func (brokenStore) Delete(context.Context, string) error { return nil }

func newService(t *testing.T, blobs blob.Store) (service.ReportService, *gorm.DB) {
	db := storetest.Open(t)
	svc := NewReportService(
		repositoryImp.New(db),
		forecastRepoImp.NewTaskRepository(db),
		forecastRepoImp.NewResultRepository(db),
		blobs,
		store.NewTransactor(db),
	)
	return svc, db
}

func quarterly() service.ReportRequest {
	return service.ReportRequest{
		Title:   "Cassava outlook Q3",
		Summary: "Prices keep rising in the north-east.",
		Sections: []service.SectionRequest{
			{SortOrder: 2, Title: "Outlook", Content: "..."},
			{SortOrder: 1, Title: "Market", Content: "..."},
		},
	}
}

func TestCreateLoadsSectionsInOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, brokenStore{})
	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, entities.ReportDraft, r.Status)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Market", got.Sections[0].Title)
	assert.Equal(t, "Outlook", got.Sections[1].Title)
	assert.Equal(t, r.ID, got.Sections[0].ReportID)
}

func TestValidation(t *testing.T) {
	svc, db := newService(t, brokenStore{})
	req := service.ReportRequest{
		Title: " ",
		Sections: []service.SectionRequest{
			{SortOrder: 1, Title: "A"},
			{SortOrder: 1, Title: ""},
		},
	}
	_, err := svc.Create(context.Background(), req)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"title", "sections[1].title", "sections[1].sort_order"}, ae.Fields())

	var n int64
	require.NoError(t, db.Model(&entities.Report{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUnknownTask(t *testing.T) {
	svc, _ := newService(t, brokenStore{})
	req := quarterly()
	id := uint(42)
	req.TaskID = &id
	_, err := svc.Create(context.Background(), req)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

func TestUpdateReplacesSections(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, brokenStore{})
	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)

	req := quarterly()
	req.Title = "Cassava outlook Q4"
	req.Sections = []service.SectionRequest{{SortOrder: 1, Title: "Summary"}}
	up, err := svc.Update(ctx, r.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Cassava outlook Q4", up.Title)
	require.Len(t, up.Sections, 1)

	var n int64
	require.NoError(t, db.Model(&entities.ReportSection{}).Where("report_id = ?", r.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	req.Status = "ARCHIVED"
	_, err = svc.Update(ctx, r.ID, req)
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))
}

func TestDeleteRemovesSections(t *testing.T) {
	ctx := context.Background()
	svc, db := newService(t, brokenStore{})
	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, r.ID))

	var n int64
	require.NoError(t, db.Model(&entities.ReportSection{}).Count(&n).Error)
	assert.Zero(t, n)
	_, err = svc.Get(ctx, r.ID)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(svc.Delete(ctx, r.ID)))
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, brokenStore{})
	var last uint
	for i := 0; i < 3; i++ {
		r, err := svc.Create(ctx, quarterly())
		require.NoError(t, err)
		last = r.ID
	}
	page, err := svc.History(ctx, store.PageRequest{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Size)
	require.Len(t, page.Items, 2)
	assert.Equal(t, last, page.Items[0].ID)

	page, err = svc.History(ctx, store.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestExportWritesDocument(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	local, err := blob.NewLocal(root, "/files")
	require.NoError(t, err)
	svc, _ := newService(t, local)

	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)
	out, err := svc.Export(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.ReportReady, out.Status)
	assert.Equal(t, "alice", out.GeneratedBy)
	require.NotNil(t, out.GeneratedAt)
	require.True(t, strings.HasPrefix(out.FileURL, "/files/reports/"))

	raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(out.FileURL, "/files/"))))
	require.NoError(t, err)
	var doc struct {
		Report struct {
			Title    string `json:"title"`
			Sections []struct {
				Title string `json:"title"`
			} `json:"sections"`
		} `json:"report"`
		ExportedBy string `json:"exported_by"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Cassava outlook Q3", doc.Report.Title)
	assert.Len(t, doc.Report.Sections, 2)
	assert.Equal(t, "alice", doc.ExportedBy)
}

func TestExportFailureMarksFailed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, brokenStore{})
	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)

	_, err = svc.Export(ctx, r.ID, "alice")
	assert.Equal(t, apperr.Infrastructure, apperr.CodeOf(err))

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReportFailed, got.Status)
	assert.Empty(t, got.FileURL)
}

func TestUpdateAbsentReport(t *testing.T) {
	svc, _ := newService(t, brokenStore{})
	_, err := svc.Update(context.Background(), 77, quarterly())
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

func TestUpdateOnlyDraftOrFailedStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, brokenStore{})
	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)

	for _, status := range []string{entities.ReportReady, entities.ReportGenerating} {
		req := quarterly()
		req.Status = status
		_, err = svc.Update(ctx, r.ID, req)
		assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err), status)
	}

	req := quarterly()
	req.Status = entities.ReportFailed
	up, err := svc.Update(ctx, r.ID, req)
	require.NoError(t, err)
	assert.Equal(t, entities.ReportFailed, up.Status)
}

// hookStore runs onPut before storing, standing in for a concurrent request
// that lands while the export upload is in flight.
type hookStore struct {
	blob.Store
	onPut   func()
	deleted []string
}

func (h *hookStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if h.onPut != nil {
		h.onPut()
	}
	return h.Store.Put(ctx, key, contentType, body)
}

func (h *hookStore) Delete(ctx context.Context, key string) error {
	h.deleted = append(h.deleted, key)
	return h.Store.Delete(ctx, key)
}

func TestExportKeepsEditsMadeDuringUpload(t *testing.T) {
	ctx := context.Background()
	local, err := blob.NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)
	hooks := &hookStore{Store: local}
	svc, _ := newService(t, hooks)

	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)
	hooks.onPut = func() {
		req := quarterly()
		req.Title = "Cassava outlook Q3 (revised)"
		req.Sections = []service.SectionRequest{{SortOrder: 1, Title: "Revised"}}
		_, err := svc.Update(ctx, r.ID, req)
		require.NoError(t, err)
	}

	out, err := svc.Export(ctx, r.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, entities.ReportReady, out.Status)
	assert.NotEmpty(t, out.FileURL)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cassava outlook Q3 (revised)", got.Title)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Revised", got.Sections[0].Title)
	assert.Equal(t, entities.ReportReady, got.Status)
}

func TestExportAbandonedWhenResetDuringUpload(t *testing.T) {
	ctx := context.Background()
	local, err := blob.NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)
	hooks := &hookStore{Store: local}
	svc, _ := newService(t, hooks)

	r, err := svc.Create(ctx, quarterly())
	require.NoError(t, err)
	hooks.onPut = func() {
		req := quarterly()
		req.Status = entities.ReportFailed
		_, err := svc.Update(ctx, r.ID, req)
		require.NoError(t, err)
	}

	_, err = svc.Export(ctx, r.ID, "alice")
	assert.Equal(t, apperr.Conflict, apperr.CodeOf(err))
	assert.Len(t, hooks.deleted, 1)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReportFailed, got.Status)
	assert.Empty(t, got.FileURL)
	assert.Nil(t, got.GeneratedAt)
}
