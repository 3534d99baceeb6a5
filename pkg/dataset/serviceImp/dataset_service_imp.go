package serviceImp

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/blob"
	cropRepo "agri/pkg/crop/repository"
	"agri/pkg/dataset/repository"
	"agri/pkg/dataset/service"
	"agri/pkg/price/importer"
	priceRepo "agri/pkg/price/repository"
	priceService "agri/pkg/price/service"
	"agri/pkg/store"
)

type datasetSvc struct {
	repo   repository.DatasetRepository
	crops  cropRepo.CropRepository
	prices priceService.PriceService
	points priceRepo.PriceRepository
	blobs  blob.Store
	tx     store.Transactor
	log    zerolog.Logger
}

func NewDatasetService(
	repo repository.DatasetRepository,
	crops cropRepo.CropRepository,
	prices priceService.PriceService,
	points priceRepo.PriceRepository,
	blobs blob.Store,
	tx store.Transactor,
	log zerolog.Logger,
) service.DatasetService {
	return &datasetSvc{repo: repo, crops: crops, prices: prices, points: points, blobs: blobs, tx: tx, log: log}
}

func (s *datasetSvc) Upload(ctx context.Context, req service.UploadRequest, uploadedBy string) (*service.UploadResult, error) {
	req.Name = filepath.Base(strings.TrimSpace(strings.ReplaceAll(req.Name, `\`, "/")))
	if req.Name == "." || req.Name == "/" {
		req.Name = ""
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rows []priceService.ImportRow
	if isWorkbook(req.Name) {
		var err error
		if rows, err = importer.ParseXLSX(bytes.NewReader(req.Data), req.CropID == nil); err != nil {
			return nil, err
		}
	}
	if err := s.checkCrop(ctx, req.CropID); err != nil {
		return nil, apperr.FromStore(err, "crop")
	}

	key := path.Join("datasets", uuid.NewString(), req.Name)
	url, err := s.blobs.Put(ctx, key, req.ContentType, bytes.NewReader(req.Data))
	if err != nil {
		return nil, err
	}

	d := &entities.DatasetFile{
		Name:        req.Name,
		ContentType: req.ContentType,
		SizeBytes:   int64(len(req.Data)),
		StorageKey:  key,
		URL:         url,
		CropID:      req.CropID,
		UploadedBy:  uploadedBy,
	}
	out := &service.UploadResult{Dataset: d}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkCrop(ctx, req.CropID); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, d); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		source := strings.TrimSpace(req.Source)
		if source == "" {
			source = req.Name
		}
		res, err := s.prices.ImportRows(ctx, rows, priceService.ImportOptions{
			DatasetFileID: &d.ID,
			DefaultCropID: req.CropID,
			Source:        source,
		})
		if err != nil {
			return err
		}
		out.Import = &res
		d.RowsImported = res.Total()
		return s.repo.Save(ctx, d)
	})
	if err != nil {
		s.removeBlob(ctx, key)
		return nil, apperr.FromStore(err, "dataset")
	}
	return out, nil
}

func (s *datasetSvc) List(ctx context.Context, cropID *uint) ([]entities.DatasetFile, error) {
	out, err := s.repo.List(ctx, cropID)
	return out, apperr.FromStore(err, "dataset")
}

func (s *datasetSvc) Get(ctx context.Context, id uint) (*entities.DatasetFile, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "dataset")
	}
	return d, nil
}

func (s *datasetSvc) Delete(ctx context.Context, id uint) error {
	var key string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		key = d.StorageKey
		if err := s.points.DetachDataset(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteByID(ctx, id)
	})
	if err != nil {
		return apperr.FromStore(err, "dataset")
	}
	s.removeBlob(ctx, key)
	return nil
}

// removeBlob is best effort: the row is the source of truth.
func (s *datasetSvc) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("blob left behind")
	}
}

func (s *datasetSvc) find(ctx context.Context, id uint) (*entities.DatasetFile, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperr.NotFoundf("dataset %d not found", id)
	}
	return d, nil
}

func (s *datasetSvc) checkCrop(ctx context.Context, cropID *uint) error {
	if cropID == nil {
		return nil
	}
	c, err := s.crops.FindByID(ctx, *cropID)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFoundf("crop_id: crop %d not found", *cropID)
	}
	return nil
}

func isWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}
