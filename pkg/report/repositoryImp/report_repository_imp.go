package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/report/repository"
	"agri/pkg/store"
)

type reportRepo struct {
	*store.GormRepository[entities.Report]
}

func New(db *gorm.DB) repository.ReportRepository {
	return &reportRepo{store.NewGormRepository[entities.Report](db)}
}

func (r *reportRepo) History(ctx context.Context, page store.PageRequest) (store.Page[entities.Report], error) {
	return store.Paginate[entities.Report](r.DB(ctx).Model(&entities.Report{}).Order("id DESC"), page)
}

func (r *reportRepo) Sections(ctx context.Context, reportID uint) ([]entities.ReportSection, error) {
	var out []entities.ReportSection
	err := r.DB(ctx).Where("report_id = ?", reportID).Order("sort_order ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *reportRepo) ReplaceSections(ctx context.Context, reportID uint, sections []entities.ReportSection) error {
	if err := r.DeleteSections(ctx, reportID); err != nil {
		return err
	}
	if len(sections) == 0 {
		return nil
	}
	for i := range sections {
		sections[i].ID = 0
		sections[i].ReportID = reportID
	}
	return r.DB(ctx).Create(&sections).Error
}

func (r *reportRepo) DeleteSections(ctx context.Context, reportID uint) error {
	return r.DB(ctx).Where("report_id = ?", reportID).Delete(&entities.ReportSection{}).Error
}
