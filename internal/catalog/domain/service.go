package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// ItemService is the tenant-facing CRUD surface for one catalog type.
// Updating a record that carries a lineage pointer marks it customized,
// which permanently shields it from template reconciliation.
type ItemService[T any] interface {
	Create(ctx context.Context, orgID snowflake.ID, item *T) (*T, error)
	List(ctx context.Context, orgID snowflake.ID) ([]T, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*T, error)
	Update(ctx context.Context, orgID, id snowflake.ID, item *T) (*T, error)
	Delete(ctx context.Context, orgID, id snowflake.ID) error
}

var (
	ErrItemNotFound        = errors.New("item_not_found")
	ErrInvalidItem         = errors.New("invalid_item")
	ErrInvalidOrganization = errors.New("invalid_organization")
)
