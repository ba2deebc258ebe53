package todo

import (
	"context"
	"errors"

	"garden-planner-go/internal/db"
	tododomain "garden-planner-go/internal/domain/todo"
	"garden-planner-go/internal/repository/gormrepo"
	"gorm.io/gorm"
)

type GormRepository struct {
	base gormrepo.Base
}

func NewGorm(gormDB *gorm.DB, retry *db.RetryPolicy) *GormRepository {
	return &GormRepository{base: gormrepo.NewBase(gormDB, retry)}
}

func (r *GormRepository) List(ctx context.Context, appointmentID string, filter tododomain.ListFilter) ([]tododomain.ToDo, error) {
	items := make([]tododomain.ToDo, 0)
	err := r.base.Do(ctx, "todos.list", func(tx *gorm.DB) error {
		query := tx.Model(&tododomain.ToDo{}).Where("appointment_id = ?", appointmentID)
		if filter.Done != nil {
			query = query.Where("done = ?", *filter.Done)
		}
		query = gormrepo.Search(query, filter.Query, "description")
		return query.Order("created_at asc, id asc").Find(&items).Error
	})
	return items, err
}

func (r *GormRepository) GetByID(ctx context.Context, appointmentID, id string) (*tododomain.ToDo, error) {
	var item tododomain.ToDo
	err := r.base.Do(ctx, "todos.get", func(tx *gorm.DB) error {
		return tx.Where("appointment_id = ? AND id = ?", appointmentID, id).Take(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tododomain.ErrToDoNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.base.Do(ctx, "todos.exists", func(tx *gorm.DB) error {
		return tx.Model(&tododomain.ToDo{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

func (r *GormRepository) Create(ctx context.Context, item *tododomain.ToDo) error {
	return r.base.Do(ctx, "todos.create", func(tx *gorm.DB) error {
		return tx.Create(item).Error
	})
}

func (r *GormRepository) Update(ctx context.Context, item *tododomain.ToDo, expectedVersion int64) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "todos.update", func(tx *gorm.DB) error {
		result := tx.Model(&tododomain.ToDo{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"description": item.Description,
				"done":        item.Done,
				"version":     gorm.Expr("version + 1"),
			})
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) SoftDelete(ctx context.Context, appointmentID, id string) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "todos.delete", func(tx *gorm.DB) error {
		result := tx.Delete(&tododomain.ToDo{}, "appointment_id = ? AND id = ?", appointmentID, id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}
