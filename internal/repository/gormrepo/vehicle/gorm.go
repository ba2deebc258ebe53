package vehicle

import (
	"context"
	"errors"

	"garden-planner-go/internal/db"
	userdomain "garden-planner-go/internal/domain/user"
	vehicledomain "garden-planner-go/internal/domain/vehicle"
	"garden-planner-go/internal/repository/gormrepo"
	"gorm.io/gorm"
)

type GormRepository struct {
	base gormrepo.Base
}

func NewGorm(gormDB *gorm.DB, retry *db.RetryPolicy) *GormRepository {
	return &GormRepository{base: gormrepo.NewBase(gormDB, retry)}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(vehicledomain.Repository) error) error {
	return r.base.InTx(ctx, "vehicles.tx", func(tx gormrepo.Base) error {
		return fn(&GormRepository{base: tx})
	})
}

func (r *GormRepository) List(ctx context.Context, filter vehicledomain.ListFilter) ([]vehicledomain.Vehicle, error) {
	items := make([]vehicledomain.Vehicle, 0)
	err := r.base.Do(ctx, "vehicles.list", func(tx *gorm.DB) error {
		query := gormrepo.Search(tx.Model(&vehicledomain.Vehicle{}), filter.Query, "brand", "model", "license_plate")
		return query.Order("brand asc, model asc, id asc").Find(&items).Error
	})
	return items, err
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*vehicledomain.Vehicle, error) {
	var item vehicledomain.Vehicle
	err := r.base.Do(ctx, "vehicles.get", func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Take(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vehicledomain.ErrVehicleNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.base.Do(ctx, "vehicles.exists", func(tx *gorm.DB) error {
		return tx.Model(&vehicledomain.Vehicle{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

func (r *GormRepository) Create(ctx context.Context, item *vehicledomain.Vehicle) error {
	return r.base.Do(ctx, "vehicles.create", func(tx *gorm.DB) error {
		return tx.Create(item).Error
	})
}

func (r *GormRepository) Update(ctx context.Context, item *vehicledomain.Vehicle, expectedVersion int64) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "vehicles.update", func(tx *gorm.DB) error {
		result := tx.Model(&vehicledomain.Vehicle{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"brand":         item.Brand,
				"model":         item.Model,
				"license_plate": item.LicensePlate,
				"version":       gorm.Expr("version + 1"),
			})
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "vehicles.delete", func(tx *gorm.DB) error {
		result := tx.Delete(&vehicledomain.Vehicle{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) ClearAssignments(ctx context.Context, vehicleID string) error {
	return r.base.Do(ctx, "vehicles.clear_assignments", func(tx *gorm.DB) error {
		return tx.Model(&userdomain.AgendaUser{}).
			Where("vehicle_id = ?", vehicleID).
			Updates(map[string]interface{}{
				"vehicle_id": nil,
				"version":    gorm.Expr("version + 1"),
			}).Error
	})
}
