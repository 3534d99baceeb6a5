package serviceImp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"agri/entities"
	"agri/pkg/apperr"
	"agri/pkg/codes"
	cropRepo "agri/pkg/crop/repository"
	"agri/pkg/price/importer"
	"agri/pkg/price/repository"
	"agri/pkg/price/service"
	regionRepo "agri/pkg/region/repository"
	"agri/pkg/store"
	"agri/pkg/validate"
)

// PageFetcher downloads an HTML page for import.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

type priceSvc struct {
	repo    repository.PriceRepository
	crops   cropRepo.CropRepository
	regions regionRepo.RegionRepository
	tx      store.Transactor
	fetcher PageFetcher
}

func NewPriceService(
	repo repository.PriceRepository,
	crops cropRepo.CropRepository,
	regions regionRepo.RegionRepository,
	tx store.Transactor,
	fetcher PageFetcher,
) service.PriceService {
	return &priceSvc{repo: repo, crops: crops, regions: regions, tx: tx, fetcher: fetcher}
}

func (s *priceSvc) List(ctx context.Context, f repository.PriceFilter) ([]entities.PriceRecord, error) {
	if f.YearFrom != nil && f.YearTo != nil && *f.YearTo < *f.YearFrom {
		return nil, apperr.Invalid("year_to", "must not be before year_from")
	}
	out, err := s.repo.List(ctx, f)
	return out, apperr.FromStore(err, "price record")
}

func (s *priceSvc) Get(ctx context.Context, id uint) (*entities.PriceRecord, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "price record")
	}
	return p, nil
}

func (s *priceSvc) Create(ctx context.Context, req service.PriceRequest) (*entities.PriceRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := &entities.PriceRecord{}
	apply(p, req)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, p); err != nil {
			return err
		}
		if err := s.checkPoint(ctx, p); err != nil {
			return err
		}
		return s.repo.Save(ctx, p)
	})
	if err != nil {
		return nil, apperr.FromStore(err, "price record")
	}
	return p, nil
}

func (s *priceSvc) Update(ctx context.Context, id uint, req service.PriceRequest) (*entities.PriceRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out *entities.PriceRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.find(ctx, id)
		if err != nil {
			return err
		}
		apply(p, req)
		if err := s.checkRefs(ctx, p); err != nil {
			return err
		}
		if err := s.checkPoint(ctx, p); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, apperr.FromStore(err, "price record")
	}
	return out, nil
}

func (s *priceSvc) Delete(ctx context.Context, id uint) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.find(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteByID(ctx, id)
	})
	return apperr.FromStore(err, "price record")
}

func (s *priceSvc) ImportRows(ctx context.Context, rows []service.ImportRow, opts service.ImportOptions) (service.ImportResult, error) {
	var res service.ImportResult
	if len(rows) == 0 {
		return res, apperr.Invalid("rows", "must not be empty")
	}
	needCrop := opts.DefaultCropID == nil
	c := validate.New()
	for i, row := range rows {
		c.Merge(fmt.Sprintf("rows[%d]", i), row.Validate(needCrop))
	}
	if err := c.Err(); err != nil {
		return res, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		res = service.ImportResult{}
		records, err := s.resolve(ctx, rows, opts)
		if err != nil {
			return err
		}
		for i := range records {
			rec := &records[i]
			existing, err := s.repo.FindPoint(ctx, rec.CropID, rec.RegionID, rec.Year, rec.Source)
			if err != nil {
				return err
			}
			if existing != nil {
				existing.AveragePrice = rec.AveragePrice
				existing.Unit = rec.Unit
				existing.DatasetFileID = rec.DatasetFileID
				if err := s.repo.Save(ctx, existing); err != nil {
					return err
				}
				res.Updated++
				continue
			}
			if err := s.repo.Save(ctx, rec); err != nil {
				return err
			}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return service.ImportResult{}, apperr.FromStore(err, "price record")
	}
	return res, nil
}

func (s *priceSvc) ImportFromURL(ctx context.Context, req service.ImportURLRequest) (service.ImportResult, error) {
	if err := req.Validate(); err != nil {
		return service.ImportResult{}, err
	}
	if s.fetcher == nil {
		return service.ImportResult{}, apperr.New(apperr.Infrastructure, "price import from URL is not configured")
	}
	body, err := s.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		return service.ImportResult{}, err
	}
	rows, err := importer.ParseHTMLTable(body, req.CropID == nil)
	if err != nil {
		return service.ImportResult{}, err
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		if u, err := url.Parse(req.URL); err == nil {
			source = u.Hostname()
		}
	}
	return s.ImportRows(ctx, rows, service.ImportOptions{DefaultCropID: req.CropID, Source: source})
}

// resolve maps crop and region codes onto ids. Unknown references are
// reported per row.
func (s *priceSvc) resolve(ctx context.Context, rows []service.ImportRow, opts service.ImportOptions) ([]entities.PriceRecord, error) {
	cropIDs := map[string]uint{}
	regionIDs := map[string]uint{}
	c := validate.New()

	if opts.DefaultCropID != nil {
		crop, err := s.crops.FindByID(ctx, *opts.DefaultCropID)
		if err != nil {
			return nil, err
		}
		if crop == nil {
			return nil, apperr.NotFoundf("crop %d not found", *opts.DefaultCropID)
		}
	}

	out := make([]entities.PriceRecord, 0, len(rows))
	for i, row := range rows {
		rec := entities.PriceRecord{
			Year:          row.Year,
			AveragePrice:  row.AveragePrice,
			Unit:          strings.TrimSpace(row.Unit),
			Source:        strings.TrimSpace(row.Source),
			DatasetFileID: opts.DatasetFileID,
		}
		if rec.Source == "" {
			rec.Source = opts.Source
		}

		if key := strings.TrimSpace(row.Crop); key == "" {
			rec.CropID = *opts.DefaultCropID
		} else if id, ok := cropIDs[key]; ok {
			rec.CropID = id
		} else {
			crop, err := s.crops.FindByCode(ctx, codes.Normalize(key))
			if err == nil && crop == nil {
				crop, err = s.crops.FindByName(ctx, key)
			}
			if err != nil {
				return nil, err
			}
			if crop == nil {
				c.Add(fmt.Sprintf("rows[%d].crop", i), "unknown crop "+key)
			} else {
				cropIDs[key] = crop.ID
				rec.CropID = crop.ID
			}
		}

		if key := codes.Normalize(row.Region); key != "" {
			id, ok := regionIDs[key]
			if !ok {
				region, err := s.regions.FindByCode(ctx, key)
				if err != nil {
					return nil, err
				}
				if region != nil {
					id = region.ID
					regionIDs[key] = id
				}
			}
			if id == 0 {
				c.Add(fmt.Sprintf("rows[%d].region", i), "unknown region "+key)
			} else {
				rec.RegionID = &id
			}
		}
		out = append(out, rec)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *priceSvc) find(ctx context.Context, id uint) (*entities.PriceRecord, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("price record %d not found", id)
	}
	return p, nil
}

func apply(p *entities.PriceRecord, req service.PriceRequest) {
	p.CropID = req.CropID
	p.RegionID = req.RegionID
	p.Year = req.Year
	p.AveragePrice = req.AveragePrice
	p.Unit = strings.TrimSpace(req.Unit)
	p.Source = strings.TrimSpace(req.Source)
}

func (s *priceSvc) checkRefs(ctx context.Context, p *entities.PriceRecord) error {
	crop, err := s.crops.FindByID(ctx, p.CropID)
	if err != nil {
		return err
	}
	if crop == nil {
		return apperr.NotFoundf("crop_id: crop %d not found", p.CropID)
	}
	if p.RegionID != nil {
		region, err := s.regions.FindByID(ctx, *p.RegionID)
		if err != nil {
			return err
		}
		if region == nil {
			return apperr.NotFoundf("region_id: region %d not found", *p.RegionID)
		}
	}
	return nil
}

func (s *priceSvc) checkPoint(ctx context.Context, p *entities.PriceRecord) error {
	other, err := s.repo.FindPoint(ctx, p.CropID, p.RegionID, p.Year, p.Source)
	if err != nil {
		return err
	}
	if other != nil && other.ID != p.ID {
		return apperr.Conflictf("a price for crop %d in %d from %q already exists", p.CropID, p.Year, p.Source)
	}
	return nil
}
