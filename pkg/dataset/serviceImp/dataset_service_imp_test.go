package serviceImp

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/blob"
	cropRepoImp "agri/pkg/crop/repositoryImp"
	"agri/pkg/dataset/repositoryImp"
	"agri/pkg/dataset/service"
	priceRepoImp "agri/pkg/price/repositoryImp"
	priceServiceImp "agri/pkg/price/serviceImp"
	regionRepoImp "agri/pkg/region/repositoryImp"
	"agri/pkg/store"
	"agri/pkg/store/storetest"
)

type fixture struct {
	svc  service.DatasetService
	db   *gorm.DB
	root string
	crop entities.Crop
}

func setup(t *testing.T) fixture {
	db := storetest.Open(t)
	root := t.TempDir()
	local, err := blob.NewLocal(root, "/files")
	require.NoError(t, err)
	tx := store.NewTransactor(db)
	prices := priceServiceImp.NewPriceService(priceRepoImp.New(db), cropRepoImp.New(db), regionRepoImp.New(db), tx, nil)
	f := fixture{
		svc:  NewDatasetService(repositoryImp.New(db), cropRepoImp.New(db), prices, priceRepoImp.New(db), local, tx, zerolog.Nop()),
		db:   db,
		root: root,
		crop: entities.Crop{Code: "SUGARCANE", Name: "Sugarcane"},
	}
	require.NoError(t, db.Create(&f.crop).Error)
	return f
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := r
		require.NoError(t, x.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func files(t *testing.T, root string) []string {
	var out []string
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			out = append(out, p)
		}
		return err
	}))
	return out
}

func TestUploadPlainFile(t *testing.T) {
	f := setup(t)
	out, err := f.svc.Upload(context.Background(), service.UploadRequest{
		Name:        "notes/../survey.csv",
		ContentType: "text/csv",
		Data:        []byte("a,b\n1,2\n"),
	}, "alice")
	require.NoError(t, err)
	assert.Nil(t, out.Import)
	assert.Equal(t, "survey.csv", out.Dataset.Name)
	assert.Equal(t, int64(8), out.Dataset.SizeBytes)
	assert.Equal(t, "alice", out.Dataset.UploadedBy)
	assert.Contains(t, out.Dataset.URL, "/files/datasets/")
	assert.Len(t, files(t, f.root), 1)
}

func TestUploadWorkbookImportsPrices(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	data := workbook(t,
		[]any{"Year", "Avg Price", "Unit"},
		[]any{2021, "1.05", "THB/kg"},
		[]any{2565, "1.20", "THB/kg"},
	)
	out, err := f.svc.Upload(ctx, service.UploadRequest{Name: "cane.xlsx", Data: data, CropID: &f.crop.ID}, "alice")
	require.NoError(t, err)
	require.NotNil(t, out.Import)
	assert.Equal(t, 2, out.Import.Inserted)
	assert.Equal(t, 2, out.Dataset.RowsImported)

	var prices []entities.PriceRecord
	require.NoError(t, f.db.Order("year").Find(&prices).Error)
	require.Len(t, prices, 2)
	assert.Equal(t, 2022, prices[1].Year)
	assert.Equal(t, "cane.xlsx", prices[0].Source)
	require.NotNil(t, prices[0].DatasetFileID)
	assert.Equal(t, out.Dataset.ID, *prices[0].DatasetFileID)

	require.NoError(t, f.svc.Delete(ctx, out.Dataset.ID))
	require.NoError(t, f.db.Order("year").Find(&prices).Error)
	require.Len(t, prices, 2)
	assert.Nil(t, prices[0].DatasetFileID)
	assert.Empty(t, files(t, f.root))

	_, err = f.svc.Get(ctx, out.Dataset.ID)
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

func TestUploadRollsBackOnUnknownCrop(t *testing.T) {
	f := setup(t)
	data := workbook(t,
		[]any{"Crop", "Year", "Price"},
		[]any{"SUGARCANE", 2021, "1.05"},
		[]any{"DURIAN", 2021, "90"},
	)
	_, err := f.svc.Upload(context.Background(), service.UploadRequest{Name: "mixed.xlsx", Data: data}, "alice")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"rows[1].crop"}, ae.Fields())

	var n int64
	require.NoError(t, f.db.Model(&entities.DatasetFile{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&entities.PriceRecord{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Empty(t, files(t, f.root))
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	_, err := f.svc.Upload(ctx, service.UploadRequest{Name: "", Data: nil}, "alice")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{"name", "file"}, ae.Fields())

	_, err = f.svc.Upload(ctx, service.UploadRequest{Name: "big.bin", Data: make([]byte, service.MaxUploadBytes+1)}, "alice")
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))

	_, err = f.svc.Upload(ctx, service.UploadRequest{Name: "broken.xlsx", Data: []byte("not a zip")}, "alice")
	assert.Equal(t, apperr.ValidationFailed, apperr.CodeOf(err))

	missing := uint(404)
	_, err = f.svc.Upload(ctx, service.UploadRequest{Name: "a.csv", Data: []byte("x"), CropID: &missing}, "alice")
	assert.Equal(t, apperr.NotFound, apperr.CodeOf(err))
	assert.Empty(t, files(t, f.root))
}

func TestListByCrop(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := f.svc.Upload(ctx, service.UploadRequest{Name: "a.csv", Data: []byte("x"), CropID: &f.crop.ID}, "alice")
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, service.UploadRequest{Name: "b.csv", Data: []byte("y")}, "alice")
	require.NoError(t, err)

	all, err := f.svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "b.csv", all[0].Name)

	mine, err := f.svc.List(ctx, &f.crop.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a.csv", mine[0].Name)

	assert.Equal(t, apperr.NotFound, apperr.CodeOf(f.svc.Delete(ctx, 999)))
}
