package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, setting *SiteSetting) error
	Update(ctx context.Context, db *gorm.DB, setting *SiteSetting) error
	FindByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*SiteSetting, error)
}
