package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/studiolane/studiolane/internal/catalog/domain"
	"github.com/studiolane/studiolane/internal/templatesync/domain"
	"gorm.io/gorm"
)

// syncItems reconciles one tenant's copies of one catalog type against the
// template set. For every template item exactly one of three outcomes holds:
//
//   - no clone with matching lineage exists: a clone is created with lineage
//     set and the customization flag clear;
//   - the clone is customized: nothing is written;
//   - otherwise: every content attribute is overwritten with the template's
//     current values.
//
// The lineage lookup precedes every create, so re-running against an
// unchanged template never creates a second clone for the same source.
func syncItems[T any, PT catalogdomain.ItemPtr[T]](
	ctx context.Context,
	tx *gorm.DB,
	repo catalogdomain.ItemRepository[T],
	genID *snowflake.Node,
	orgID snowflake.ID,
	templates []T,
	now time.Time,
) (domain.TypeCounts, error) {
	var counts domain.TypeCounts

	for i := range templates {
		tpl := &templates[i]
		sourceID := PT(tpl).GetID()

		existing, err := repo.FindBySource(ctx, tx, orgID, sourceID)
		if err != nil {
			return counts, err
		}

		switch {
		case existing == nil:
			var clone T
			p := PT(&clone)
			p.Init(genID.Generate(), orgID, now)
			p.SetSource(sourceID)
			p.CopyContentFrom(tpl, now)
			if err := repo.Insert(ctx, tx, &clone); err != nil {
				return counts, err
			}
			counts.Created++

		case PT(existing).Customized():
			counts.Skipped++

		default:
			PT(existing).CopyContentFrom(tpl, now)
			if err := repo.Update(ctx, tx, existing); err != nil {
				return counts, err
			}
			counts.Updated++
		}
	}

	return counts, nil
}
