package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	orgdomain "github.com/studiolane/studiolane/internal/organization/domain"
	orgrepo "github.com/studiolane/studiolane/internal/organization/repository"
	"github.com/studiolane/studiolane/internal/sitesetting/domain"
	"github.com/studiolane/studiolane/internal/sitesetting/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSiteSettings(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&orgdomain.Organization{}, &domain.SiteSetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := NewService(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.Provide(),
		OrgRepo: orgrepo.Provide(),
	})
	return svc, db, node
}

func seedTestOrg(t *testing.T, db *gorm.DB, node *snowflake.Node, name, slug string) orgdomain.Organization {
	t.Helper()

	now := time.Now().UTC()
	org := orgdomain.Organization{
		ID:        node.Generate(),
		Name:      name,
		Slug:      slug,
		Status:    orgdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}
	return org
}

func TestEnsureDefaultCreatesOnce(t *testing.T) {
	svc, db, node := setupSiteSettings(t)
	org := seedTestOrg(t, db, node, "Atelier Nord", "atelier-nord")

	first, err := svc.EnsureDefault(context.Background(), org.ID)
	if err != nil {
		t.Fatalf("ensure default: %v", err)
	}
	if first.SiteName != "Atelier Nord" {
		t.Fatalf("default site name must come from the organization, got %q", first.SiteName)
	}

	second, err := svc.EnsureDefault(context.Background(), org.ID)
	if err != nil {
		t.Fatalf("ensure default again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected one settings record, got %s and %s", first.ID, second.ID)
	}

	var count int64
	if err := db.Model(&domain.SiteSetting{}).Where("org_id = ?", org.ID).Count(&count).Error; err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 settings record, got %d", count)
	}
}

func TestUpdateMarksWrittenFieldsCustomized(t *testing.T) {
	svc, db, node := setupSiteSettings(t)
	org := seedTestOrg(t, db, node, "Praxis West", "praxis-west")

	color := "#00aaff"
	setting, err := svc.Update(context.Background(), org.ID, domain.UpdateRequest{
		PrimaryColor: &color,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if setting.PrimaryColor != color {
		t.Fatalf("edit not applied, got %q", setting.PrimaryColor)
	}
	if !setting.IsFieldCustomized("primary_color") {
		t.Fatal("written field must be recorded as customized")
	}
	if setting.IsFieldCustomized("body_font") {
		t.Fatal("untouched fields must not be marked customized")
	}
}

func TestUpdateIdentityFieldsAreNotRecorded(t *testing.T) {
	svc, db, node := setupSiteSettings(t)
	org := seedTestOrg(t, db, node, "Studio Sued", "studio-sued")

	name := "Studio Süd"
	email := "hello@studio-sued.example"
	setting, err := svc.Update(context.Background(), org.ID, domain.UpdateRequest{
		SiteName:     &name,
		ContactEmail: &email,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if setting.SiteName != name || setting.ContactEmail != email {
		t.Fatalf("identity edit not applied, got %q / %q", setting.SiteName, setting.ContactEmail)
	}
	if len(setting.CustomizedFields) != 0 {
		t.Fatalf("identity fields are outside the allow-list, got %v", setting.CustomizedFields)
	}
}
