package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/studiolane/studiolane/internal/sitesetting/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, setting *domain.SiteSetting) error {
	return db.WithContext(ctx).Create(setting).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, setting *domain.SiteSetting) error {
	return db.WithContext(ctx).Save(setting).Error
}

func (r *repo) FindByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.SiteSetting, error) {
	var setting domain.SiteSetting
	err := db.WithContext(ctx).Where("org_id = ?", orgID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}
