package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/studiolane/studiolane/internal/catalog/domain"
	catalogrepo "github.com/studiolane/studiolane/internal/catalog/repository"
	"github.com/studiolane/studiolane/internal/config"
	orgdomain "github.com/studiolane/studiolane/internal/organization/domain"
	orgrepo "github.com/studiolane/studiolane/internal/organization/repository"
	settingdomain "github.com/studiolane/studiolane/internal/sitesetting/domain"
	settingrepo "github.com/studiolane/studiolane/internal/sitesetting/repository"
	"github.com/studiolane/studiolane/internal/synclock"
	"github.com/studiolane/studiolane/internal/templatesync/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupSyncDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
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

	if err := db.AutoMigrate(
		&orgdomain.Organization{},
		&catalogdomain.ServiceOffering{},
		&catalogdomain.Product{},
		&catalogdomain.Article{},
		&catalogdomain.Course{},
		&settingdomain.SiteSetting{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return db, node
}

func newSyncService(db *gorm.DB, node *snowflake.Node, locker *synclock.Locker) domain.Service {
	return NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg: config.Config{
			TemplateOrgSlug:   "template",
			SyncTenantTimeout: 30 * time.Second,
		},
		Locker:      locker,
		OrgRepo:     orgrepo.Provide(),
		ServiceRepo: catalogrepo.Provide[catalogdomain.ServiceOffering](),
		ProductRepo: catalogrepo.Provide[catalogdomain.Product](),
		ArticleRepo: catalogrepo.Provide[catalogdomain.Article](),
		CourseRepo:  catalogrepo.Provide[catalogdomain.Course](),
		SettingRepo: settingrepo.Provide(),
	})
}

func seedOrg(t *testing.T, db *gorm.DB, node *snowflake.Node, name, slug string, status orgdomain.OrgStatus) orgdomain.Organization {
	t.Helper()

	now := time.Now().UTC()
	org := orgdomain.Organization{
		ID:        node.Generate(),
		Name:      name,
		Slug:      slug,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&org).Error; err != nil {
		t.Fatalf("seed org %s: %v", slug, err)
	}
	return org
}

func seedTemplateService(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, name string, position int) catalogdomain.ServiceOffering {
	t.Helper()

	now := time.Now().UTC()
	svc := catalogdomain.ServiceOffering{
		ID:              node.Generate(),
		OrgID:           orgID,
		Name:            name,
		Description:     "template copy of " + name,
		PriceCents:      9000,
		Currency:        "EUR",
		DurationMinutes: 60,
		Position:        position,
		Visible:         true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Create(&svc).Error; err != nil {
		t.Fatalf("seed template service %s: %v", name, err)
	}
	return svc
}

func seedTemplateProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, name string) catalogdomain.Product {
	t.Helper()

	now := time.Now().UTC()
	product := catalogdomain.Product{
		ID:         node.Generate(),
		OrgID:      orgID,
		Name:       name,
		SKU:        "SKU-" + name,
		PriceCents: 2500,
		Currency:   "EUR",
		Visible:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed template product %s: %v", name, err)
	}
	return product
}

func seedSettings(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, siteName string, mutate func(*settingdomain.SiteSetting)) settingdomain.SiteSetting {
	t.Helper()

	now := time.Now().UTC()
	setting := settingdomain.SiteSetting{
		ID:               node.Generate(),
		OrgID:            orgID,
		SiteName:         siteName,
		CustomizedFields: datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if mutate != nil {
		mutate(&setting)
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return setting
}

func TestRunClonesTemplateContentForNewTenant(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	tenant := seedOrg(t, db, node, "Aurora Studio", "aurora-studio", orgdomain.StatusActive)

	seedTemplateService(t, db, node, template.ID, "Deep Tissue Massage", 1)
	seedTemplateService(t, db, node, template.ID, "Yoga Class", 2)
	seedTemplateProduct(t, db, node, template.ID, "Gift Card")
	seedSettings(t, db, node, template.ID, "Template", func(s *settingdomain.SiteSetting) {
		s.PrimaryColor = "#112233"
		s.HeadingFont = "Lora"
	})

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !report.Success {
		t.Fatalf("expected successful pass, errors: %v", report.Errors)
	}
	if report.SyncedCount != 1 || report.TotalCount != 1 {
		t.Fatalf("expected 1/1 tenants synced, got %d/%d", report.SyncedCount, report.TotalCount)
	}
	if report.TemplateName != "Template" {
		t.Fatalf("expected template name in report, got %q", report.TemplateName)
	}
	if report.Services.Created != 2 || report.Products.Created != 1 {
		t.Fatalf("expected 2 services and 1 product created, got %+v / %+v", report.Services, report.Products)
	}
	if report.SiteSettings.Updated != 1 {
		t.Fatalf("expected settings creation counted as updated, got %+v", report.SiteSettings)
	}

	var clones []catalogdomain.ServiceOffering
	if err := db.Where("org_id = ?", tenant.ID).Order("position asc").Find(&clones).Error; err != nil {
		t.Fatalf("load clones: %v", err)
	}
	if len(clones) != 2 {
		t.Fatalf("expected 2 service clones, got %d", len(clones))
	}
	for _, clone := range clones {
		if clone.TemplateSourceID == nil {
			t.Fatalf("clone %s has no lineage pointer", clone.Name)
		}
		if clone.IsCustomized {
			t.Fatalf("fresh clone %s must not be customized", clone.Name)
		}
		if clone.ID == *clone.TemplateSourceID {
			t.Fatalf("clone %s reuses the template item's identity", clone.Name)
		}
	}

	var setting settingdomain.SiteSetting
	if err := db.Where("org_id = ?", tenant.ID).First(&setting).Error; err != nil {
		t.Fatalf("load tenant settings: %v", err)
	}
	if setting.SiteName != "Aurora Studio" {
		t.Fatalf("identity field must stay the tenant's, got %q", setting.SiteName)
	}
	if setting.PrimaryColor != "#112233" || setting.HeadingFont != "Lora" {
		t.Fatalf("expected template presentation fields copied, got %q / %q", setting.PrimaryColor, setting.HeadingFont)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	tenant := seedOrg(t, db, node, "Nord Atelier", "nord-atelier", orgdomain.StatusTrial)
	seedTemplateService(t, db, node, template.ID, "Consultation", 1)
	seedTemplateService(t, db, node, template.ID, "Workshop", 2)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if second.Services.Created != 0 {
		t.Fatalf("second pass must not create clones, got %+v", second.Services)
	}
	if second.Services.Updated != 2 {
		t.Fatalf("expected 2 clones refreshed on second pass, got %+v", second.Services)
	}

	var count int64
	if err := db.Model(&catalogdomain.ServiceOffering{}).Where("org_id = ?", tenant.ID).Count(&count).Error; err != nil {
		t.Fatalf("count clones: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected exactly 2 clones after double run, got %d", count)
	}
}

func TestRunPropagatesTemplateEdits(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	tenant := seedOrg(t, db, node, "Kiez Praxis", "kiez-praxis", orgdomain.StatusActive)
	source := seedTemplateService(t, db, node, template.ID, "Initial Session", 1)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	if err := db.Model(&catalogdomain.ServiceOffering{}).
		Where("id = ?", source.ID).
		Updates(map[string]any{"name": "Intake Session", "price_cents": 12000}).Error; err != nil {
		t.Fatalf("edit template item: %v", err)
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Services.Updated != 1 {
		t.Fatalf("expected 1 clone refreshed, got %+v", report.Services)
	}

	var clone catalogdomain.ServiceOffering
	if err := db.Where("org_id = ? AND template_source_id = ?", tenant.ID, source.ID).First(&clone).Error; err != nil {
		t.Fatalf("load clone: %v", err)
	}
	if clone.Name != "Intake Session" || clone.PriceCents != 12000 {
		t.Fatalf("template edit not propagated, got %q / %d", clone.Name, clone.PriceCents)
	}
}

func TestRunPreservesCustomizedClones(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	tenant := seedOrg(t, db, node, "Studio Mitte", "studio-mitte", orgdomain.StatusActive)
	source := seedTemplateService(t, db, node, template.ID, "Standard Session", 1)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// The tenant renames their copy, which detaches it from reconciliation.
	if err := db.Model(&catalogdomain.ServiceOffering{}).
		Where("org_id = ? AND template_source_id = ?", tenant.ID, source.ID).
		Updates(map[string]any{"name": "Signature Session", "is_customized": true}).Error; err != nil {
		t.Fatalf("customize clone: %v", err)
	}
	if err := db.Model(&catalogdomain.ServiceOffering{}).
		Where("id = ?", source.ID).
		Update("name", "Renamed In Template").Error; err != nil {
		t.Fatalf("edit template item: %v", err)
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Services.Skipped != 1 || report.Services.Updated != 0 || report.Services.Created != 0 {
		t.Fatalf("expected customized clone skipped, got %+v", report.Services)
	}

	var clone catalogdomain.ServiceOffering
	if err := db.Where("org_id = ? AND template_source_id = ?", tenant.ID, source.ID).First(&clone).Error; err != nil {
		t.Fatalf("load clone: %v", err)
	}
	if clone.Name != "Signature Session" {
		t.Fatalf("customized clone was overwritten, got %q", clone.Name)
	}
}

func TestRunSettingsFieldIndependence(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	tenant := seedOrg(t, db, node, "Atelier Ost", "atelier-ost", orgdomain.StatusActive)
	seedSettings(t, db, node, template.ID, "Template", func(s *settingdomain.SiteSetting) {
		s.PrimaryColor = "#101010"
		s.BodyFont = "Inter"
	})

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// Tenant overrides one field only.
	var setting settingdomain.SiteSetting
	if err := db.Where("org_id = ?", tenant.ID).First(&setting).Error; err != nil {
		t.Fatalf("load tenant settings: %v", err)
	}
	setting.PrimaryColor = "#ff6600"
	setting.MarkFieldCustomized("primary_color")
	if err := db.Save(&setting).Error; err != nil {
		t.Fatalf("customize settings field: %v", err)
	}

	if err := db.Model(&settingdomain.SiteSetting{}).
		Where("org_id = ?", template.ID).
		Updates(map[string]any{"primary_color": "#202020", "body_font": "Source Serif"}).Error; err != nil {
		t.Fatalf("edit template settings: %v", err)
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.SiteSettings.Updated != 1 {
		t.Fatalf("expected settings update, got %+v", report.SiteSettings)
	}

	if err := db.Where("org_id = ?", tenant.ID).First(&setting).Error; err != nil {
		t.Fatalf("reload tenant settings: %v", err)
	}
	if setting.PrimaryColor != "#ff6600" {
		t.Fatalf("customized field was overwritten, got %q", setting.PrimaryColor)
	}
	if setting.BodyFont != "Source Serif" {
		t.Fatalf("non-customized field not propagated, got %q", setting.BodyFont)
	}
}

func TestRunFailsWithoutTemplateOrg(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	seedOrg(t, db, node, "Lone Tenant", "lone-tenant", orgdomain.StatusActive)

	_, err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrTemplateOrgNotFound) {
		t.Fatalf("expected ErrTemplateOrgNotFound, got %v", err)
	}
}

func TestRunSkipsInactiveAndTemplateOrgs(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	seedOrg(t, db, node, "Active One", "active-one", orgdomain.StatusActive)
	seedOrg(t, db, node, "Paused", "paused", orgdomain.StatusSuspended)
	seedOrg(t, db, node, "Gone", "gone", orgdomain.StatusCancelled)
	seedTemplateService(t, db, node, template.ID, "Session", 1)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.TotalCount != 1 || report.SyncedCount != 1 {
		t.Fatalf("expected only the active tenant in scope, got %d/%d", report.SyncedCount, report.TotalCount)
	}

	for _, slug := range []string{"paused", "gone"} {
		var org orgdomain.Organization
		if err := db.Where("slug = ?", slug).First(&org).Error; err != nil {
			t.Fatalf("load org %s: %v", slug, err)
		}
		var count int64
		if err := db.Model(&catalogdomain.ServiceOffering{}).Where("org_id = ?", org.ID).Count(&count).Error; err != nil {
			t.Fatalf("count clones for %s: %v", slug, err)
		}
		if count != 0 {
			t.Fatalf("inactive org %s received clones", slug)
		}
	}
}

func TestRunIsolatesTenantFailures(t *testing.T) {
	db, node := setupSyncDB(t)
	svc := newSyncService(db, node, synclock.NewLocker(nil))

	template := seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)
	healthy := seedOrg(t, db, node, "Healthy Studio", "healthy-studio", orgdomain.StatusActive)
	broken := seedOrg(t, db, node, "Broken Studio", "broken-studio", orgdomain.StatusActive)

	seedTemplateService(t, db, node, template.ID, "Session", 1)
	seedTemplateProduct(t, db, node, template.ID, "Voucher")

	// Force the product insert to fail for one tenant. Services for that
	// tenant are written earlier in the same transaction and must roll back.
	err := db.Callback().Create().Before("gorm:create").Register("force_tenant_failure", func(tx *gorm.DB) {
		if tx.Statement == nil {
			return
		}
		if product, ok := tx.Statement.Dest.(*catalogdomain.Product); ok && product.OrgID == broken.ID {
			tx.AddError(errors.New("write rejected"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if report.Success {
		t.Fatal("expected partial failure to mark the pass unsuccessful")
	}
	if report.SyncedCount != 1 || report.TotalCount != 2 {
		t.Fatalf("expected 1/2 tenants synced, got %d/%d", report.SyncedCount, report.TotalCount)
	}
	if len(report.Errors) != 1 {
		t.Fatalf("expected 1 error entry, got %v", report.Errors)
	}
	if got := report.Errors[0]; !strings.HasPrefix(got, "Broken Studio: ") {
		t.Fatalf("error entry must name the tenant, got %q", got)
	}
	if report.Services.Created != 1 || report.Products.Created != 1 {
		t.Fatalf("rolled-back tenant must not contribute counts, got %+v / %+v", report.Services, report.Products)
	}

	var count int64
	if err := db.Model(&catalogdomain.ServiceOffering{}).Where("org_id = ?", broken.ID).Count(&count).Error; err != nil {
		t.Fatalf("count broken tenant services: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to remove partial writes, got %d services", count)
	}

	if err := db.Model(&catalogdomain.ServiceOffering{}).Where("org_id = ?", healthy.ID).Count(&count).Error; err != nil {
		t.Fatalf("count healthy tenant services: %v", err)
	}
	if count != 1 {
		t.Fatalf("healthy tenant must keep its clone, got %d services", count)
	}
}

func TestRunRefusesOverlappingPass(t *testing.T) {
	db, node := setupSyncDB(t)
	locker := synclock.NewLocker(nil)
	svc := newSyncService(db, node, locker)

	seedOrg(t, db, node, "Template", "template", orgdomain.StatusActive)

	token, acquired, err := locker.TryLock(context.Background(), runLockKey, time.Minute)
	if err != nil || !acquired {
		t.Fatalf("prime lock: acquired=%v err=%v", acquired, err)
	}
	defer func() {
		_ = locker.Release(context.Background(), runLockKey, token)
	}()

	if _, err := svc.Run(context.Background()); !errors.Is(err, domain.ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
}
