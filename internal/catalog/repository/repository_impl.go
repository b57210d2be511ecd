package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/studiolane/studiolane/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo[T any] struct{}

// Provide builds the shared gorm-backed repository for one catalog type.
func Provide[T any]() domain.ItemRepository[T] {
	return &repo[T]{}
}

func (r *repo[T]) Insert(ctx context.Context, db *gorm.DB, item *T) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo[T]) Update(ctx context.Context, db *gorm.DB, item *T) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo[T]) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error {
	var model T
	return db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&model).Error
}

func (r *repo[T]) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*T, error) {
	var item T
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo[T]) FindAll(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]T, error) {
	var items []T
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo[T]) FindBySource(ctx context.Context, db *gorm.DB, orgID, sourceID snowflake.ID) (*T, error) {
	var item T
	err := db.WithContext(ctx).
		Where("org_id = ? AND template_source_id = ?", orgID, sourceID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
