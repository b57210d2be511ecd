package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/studiolane/studiolane/internal/organization/domain"
	settingdomain "github.com/studiolane/studiolane/internal/sitesetting/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const templateOrgName = "Template"

// EnsureTemplateOrg seeds the template organization and its settings record
// for startup bootstrap. Safe to run on every start.
func EnsureTemplateOrg(db *gorm.DB, templateSlug string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if templateSlug == "" {
		return errors.New("template slug is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureTemplateOrgTx(ctx, tx, node, templateSlug)
		if err != nil {
			return err
		}
		return ensureTemplateSettingsTx(ctx, tx, node, org)
	})
}

func ensureTemplateOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, templateSlug string) (*orgdomain.Organization, error) {
	var org orgdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", templateSlug).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	org = orgdomain.Organization{
		ID:        node.Generate(),
		Name:      templateOrgName,
		Slug:      templateSlug,
		Status:    orgdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func ensureTemplateSettingsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, org *orgdomain.Organization) error {
	var setting settingdomain.SiteSetting
	err := tx.WithContext(ctx).Where("org_id = ?", org.ID).First(&setting).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	setting = settingdomain.SiteSetting{
		ID:               node.Generate(),
		OrgID:            org.ID,
		SiteName:         org.Name,
		CustomizedFields: datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return tx.WithContext(ctx).Create(&setting).Error
}
