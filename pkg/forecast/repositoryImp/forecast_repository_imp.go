package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"agri/entities"
	"agri/pkg/forecast/repository"
	"agri/pkg/store"
)

type modelRepo struct {
	*store.GormRepository[entities.ForecastModel]
}

func NewModelRepository(db *gorm.DB) repository.ModelRepository {
	return &modelRepo{store.NewGormRepository[entities.ForecastModel](db)}
}

func (r *modelRepo) FindByName(ctx context.Context, name string) (*entities.ForecastModel, error) {
	return store.First[entities.ForecastModel](r.DB(ctx), "LOWER(name) = LOWER(?)", name)
}

func (r *modelRepo) InUse(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entities.ForecastTask{}).Where("model_id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

type taskRepo struct {
	*store.GormRepository[entities.ForecastTask]
}

func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepo{store.NewGormRepository[entities.ForecastTask](db)}
}

func (r *taskRepo) List(ctx context.Context, f repository.TaskFilter) (store.Page[entities.ForecastTask], error) {
	q := r.DB(ctx).Model(&entities.ForecastTask{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return store.Paginate[entities.ForecastTask](q.Order("id DESC"), f.Page)
}

func (r *taskRepo) ReferencedByReport(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entities.Report{}).Where("task_id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

type resultRepo struct{ db *gorm.DB }

func NewResultRepository(db *gorm.DB) repository.ResultRepository { return &resultRepo{db: db} }

func (r *resultRepo) FindByTask(ctx context.Context, taskID uint) ([]entities.ForecastResult, error) {
	var out []entities.ForecastResult
	return out, store.Conn(ctx, r.db).Where("task_id = ?", taskID).Order("year ASC, id ASC").Find(&out).Error
}

func (r *resultRepo) ReplaceForTask(ctx context.Context, taskID uint, results []entities.ForecastResult) error {
	if err := r.DeleteByTask(ctx, taskID); err != nil {
		return err
	}
	if len(results) == 0 {
		return nil
	}
	for i := range results {
		results[i].ID = 0
		results[i].TaskID = taskID
	}
	return store.Conn(ctx, r.db).CreateInBatches(results, 200).Error
}

func (r *resultRepo) DeleteByTask(ctx context.Context, taskID uint) error {
	return store.Conn(ctx, r.db).Where("task_id = ?", taskID).Delete(&entities.ForecastResult{}).Error
}
