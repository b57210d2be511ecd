package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/studiolane/studiolane/internal/catalog/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the generic tenant-facing CRUD implementation for one catalog
// type. Writes run inside their own transaction; a tenant update of a
// lineage-bearing record flips the customization flag.
type Service[T any, PT domain.ItemPtr[T]] struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.ItemRepository[T]
	kind  domain.Kind
}

// New builds the CRUD service for one catalog type.
func New[T any, PT domain.ItemPtr[T]](db *gorm.DB, log *zap.Logger, genID *snowflake.Node, repo domain.ItemRepository[T], kind domain.Kind) domain.ItemService[T] {
	return &Service[T, PT]{
		db:    db,
		log:   log.Named("catalog." + string(kind)),
		genID: genID,
		repo:  repo,
		kind:  kind,
	}
}

func (s *Service[T, PT]) Create(ctx context.Context, orgID snowflake.ID, item *T) (*T, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if item == nil {
		return nil, domain.ErrInvalidItem
	}

	// Tenant-authored records carry no lineage.
	now := time.Now().UTC()
	PT(item).Init(s.genID.Generate(), orgID, now)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, item)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("catalog item created",
		zap.String("org_id", orgID.String()),
		zap.String("item_id", PT(item).GetID().String()),
	)
	return item, nil
}

func (s *Service[T, PT]) List(ctx context.Context, orgID snowflake.ID) ([]T, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	return s.repo.FindAll(ctx, s.db, orgID)
}

func (s *Service[T, PT]) Get(ctx context.Context, orgID, id snowflake.ID) (*T, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *Service[T, PT]) Update(ctx context.Context, orgID, id snowflake.ID, item *T) (*T, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	if item == nil {
		return nil, domain.ErrInvalidItem
	}

	var existing *T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		existing, err = s.repo.FindByID(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrItemNotFound
		}

		now := time.Now().UTC()
		PT(existing).CopyContentFrom(item, now)
		// A tenant edit of a cloned record permanently detaches it from
		// template reconciliation.
		if PT(existing).SourceID() != nil {
			PT(existing).MarkCustomized()
		}
		return s.repo.Update(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("catalog item updated",
		zap.String("org_id", orgID.String()),
		zap.String("item_id", id.String()),
		zap.Bool("customized", PT(existing).Customized()),
	)
	return existing, nil
}

func (s *Service[T, PT]) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	if orgID == 0 {
		return domain.ErrInvalidOrganization
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, orgID, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrItemNotFound
		}
		return s.repo.Delete(ctx, tx, orgID, id)
	})
}
