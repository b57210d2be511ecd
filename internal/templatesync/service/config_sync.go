package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/studiolane/studiolane/internal/organization/domain"
	settingdomain "github.com/studiolane/studiolane/internal/sitesetting/domain"
	"github.com/studiolane/studiolane/internal/templatesync/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// syncSettings reconciles one tenant's site settings against the template
// record at field granularity. Only allow-listed fields are propagated;
// fields the tenant has customized are left untouched. A missing tenant
// record is created from the allow-list and counted as updated.
func syncSettings(
	ctx context.Context,
	tx *gorm.DB,
	repo settingdomain.Repository,
	genID *snowflake.Node,
	tenant orgdomain.Organization,
	tpl *settingdomain.SiteSetting,
	now time.Time,
) (domain.TypeCounts, error) {
	var counts domain.TypeCounts
	if tpl == nil {
		return counts, nil
	}

	existing, err := repo.FindByOrg(ctx, tx, tenant.ID)
	if err != nil {
		return counts, err
	}

	if existing == nil {
		setting := &settingdomain.SiteSetting{
			ID:               genID.Generate(),
			OrgID:            tenant.ID,
			SiteName:         tenant.Name,
			CustomizedFields: datatypes.JSONMap{},
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		for _, name := range settingdomain.SyncableFieldNames() {
			acc := settingdomain.SyncableFields[name]
			acc.Set(setting, acc.Get(tpl))
		}
		if err := repo.Insert(ctx, tx, setting); err != nil {
			return counts, err
		}
		counts.Updated++
		return counts, nil
	}

	wrote := false
	for _, name := range settingdomain.SyncableFieldNames() {
		if existing.IsFieldCustomized(name) {
			continue
		}
		acc := settingdomain.SyncableFields[name]
		acc.Set(existing, acc.Get(tpl))
		wrote = true
	}

	if !wrote {
		counts.Skipped++
		return counts, nil
	}

	existing.UpdatedAt = now
	if err := repo.Update(ctx, tx, existing); err != nil {
		return counts, err
	}
	counts.Updated++
	return counts, nil
}
