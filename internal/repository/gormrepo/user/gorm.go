package user

import (
	"context"
	"errors"

	"garden-planner-go/internal/db"
	userdomain "garden-planner-go/internal/domain/user"
	"garden-planner-go/internal/repository/gormrepo"
	"gorm.io/gorm"
)

type GormRepository struct {
	base gormrepo.Base
}

func NewGorm(gormDB *gorm.DB, retry *db.RetryPolicy) *GormRepository {
	return &GormRepository{base: gormrepo.NewBase(gormDB, retry)}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(userdomain.Repository) error) error {
	return r.base.InTx(ctx, "users.tx", func(tx gormrepo.Base) error {
		return fn(&GormRepository{base: tx})
	})
}

func (r *GormRepository) List(ctx context.Context, filter userdomain.ListFilter) ([]userdomain.AgendaUser, error) {
	users := make([]userdomain.AgendaUser, 0)
	err := r.base.Do(ctx, "users.list", func(tx *gorm.DB) error {
		query := gormrepo.Search(tx.Model(&userdomain.AgendaUser{}), filter.Query, "first_name", "last_name", "email", "user_name")
		return query.Order("last_name asc, first_name asc, id asc").Find(&users).Error
	})
	return users, err
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*userdomain.AgendaUser, error) {
	return r.take(ctx, "users.get", "id = ?", id)
}

func (r *GormRepository) GetByEmail(ctx context.Context, email string) (*userdomain.AgendaUser, error) {
	return r.take(ctx, "users.get_by_email", "email = ?", email)
}

func (r *GormRepository) take(ctx context.Context, op, condition string, value string) (*userdomain.AgendaUser, error) {
	var user userdomain.AgendaUser
	err := r.base.Do(ctx, op, func(tx *gorm.DB) error {
		return tx.Where(condition, value).Take(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.base.Do(ctx, "users.exists", func(tx *gorm.DB) error {
		return tx.Model(&userdomain.AgendaUser{}).Where("id = ?", id).Count(&count).Error
	})
	return count > 0, err
}

func (r *GormRepository) Create(ctx context.Context, user *userdomain.AgendaUser) error {
	return r.base.Do(ctx, "users.create", func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
}

func (r *GormRepository) Update(ctx context.Context, user *userdomain.AgendaUser, expectedVersion int64) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "users.update", func(tx *gorm.DB) error {
		result := tx.Model(&userdomain.AgendaUser{}).
			Where("id = ? AND version = ?", user.ID, expectedVersion).
			Updates(map[string]interface{}{
				"first_name":    user.FirstName,
				"last_name":     user.LastName,
				"user_name":     user.UserName,
				"email":         user.Email,
				"password_hash": user.PasswordHash,
				"language_code": user.LanguageCode,
				"vehicle_id":    user.VehicleID,
				"version":       gorm.Expr("version + 1"),
			})
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.base.Do(ctx, "users.delete", func(tx *gorm.DB) error {
		result := tx.Delete(&userdomain.AgendaUser{}, "id = ?", id)
		affected = result.RowsAffected
		return result.Error
	})
	return affected > 0, err
}

func (r *GormRepository) ListRoles(ctx context.Context, userID string) ([]string, error) {
	roles := make([]string, 0)
	err := r.base.Do(ctx, "users.list_roles", func(tx *gorm.DB) error {
		return tx.Model(&userdomain.UserRole{}).
			Where("user_id = ?", userID).
			Order("role_name asc").
			Pluck("role_name", &roles).Error
	})
	return roles, err
}

func (r *GormRepository) ListRolesByUserIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []userdomain.UserRole
	err := r.base.Do(ctx, "users.list_roles_by_ids", func(tx *gorm.DB) error {
		return tx.Where("user_id IN ?", userIDs).Order("user_id asc, role_name asc").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.RoleName)
	}
	return result, nil
}

func (r *GormRepository) ReplaceRoles(ctx context.Context, userID string, roles []string) error {
	return r.base.Do(ctx, "users.replace_roles", func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&userdomain.UserRole{}).Error; err != nil {
			return err
		}
		if len(roles) == 0 {
			return nil
		}
		rows := make([]userdomain.UserRole, 0, len(roles))
		for _, role := range roles {
			rows = append(rows, userdomain.UserRole{UserID: userID, RoleName: role})
		}
		return tx.Create(&rows).Error
	})
}
