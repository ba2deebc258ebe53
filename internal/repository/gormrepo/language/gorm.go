package language

import (
	"context"

	"garden-planner-go/internal/db"
	languagedomain "garden-planner-go/internal/domain/language"
	"garden-planner-go/internal/repository/gormrepo"
	"gorm.io/gorm"
)

type GormRepository struct {
	base gormrepo.Base
}

func NewGorm(gormDB *gorm.DB, retry *db.RetryPolicy) *GormRepository {
	return &GormRepository{base: gormrepo.NewBase(gormDB, retry)}
}

func (r *GormRepository) ListActive(ctx context.Context) ([]languagedomain.Language, error) {
	items := make([]languagedomain.Language, 0)
	err := r.base.Do(ctx, "languages.list_active", func(tx *gorm.DB) error {
		return tx.Where("is_active = ?", true).Order("code asc").Find(&items).Error
	})
	return items, err
}

func (r *GormRepository) SetActive(ctx context.Context, code string, active bool) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "languages.set_active", func(tx *gorm.DB) error {
		result := tx.Model(&languagedomain.Language{}).Where("code = ?", code).Update("is_active", active)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}
