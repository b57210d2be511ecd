package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ItemRepository is the shared persistence contract for all synchronizable
// catalog types. One generic implementation serves every type; the db handle
// is passed per call so callers control the transactional scope.
type ItemRepository[T any] interface {
	Insert(ctx context.Context, db *gorm.DB, item *T) error
	Update(ctx context.Context, db *gorm.DB, item *T) error
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*T, error)
	FindAll(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]T, error)
	// FindBySource resolves the lineage lookup: the tenant's clone of one
	// template item, nil when the tenant has no clone yet.
	FindBySource(ctx context.Context, db *gorm.DB, orgID, sourceID snowflake.ID) (*T, error)
}
