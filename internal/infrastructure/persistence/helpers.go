package persistence

import (
	"errors"

	"github.com/google/uuid"
	"github.com/vellap/portal/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// translateError maps gorm sentinel errors onto domain errors. Requires
// gorm.Config.TranslateError so that unique violations surface as
// gorm.ErrDuplicatedKey on both postgres and sqlite.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// updateRow writes every column of row except the primary key and
// created_at, including zero values. Returns shared.ErrNotFound when no row
// has the id.
func updateRow(tx *gorm.DB, model any, id uuid.UUID, row any) error {
	result := tx.Model(model).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(row)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// replaceChildren deletes the child rows of parentID and inserts rows.
func replaceChildren[T any](tx *gorm.DB, foreignKey string, parentID uuid.UUID, rows []T) error {
	var zero T
	if err := tx.Where(foreignKey+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return translateError(tx.Create(&rows).Error)
}
