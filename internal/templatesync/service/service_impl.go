package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	catalogdomain "github.com/studiolane/studiolane/internal/catalog/domain"
	"github.com/studiolane/studiolane/internal/config"
	obsmetrics "github.com/studiolane/studiolane/internal/observability/metrics"
	orgdomain "github.com/studiolane/studiolane/internal/organization/domain"
	settingdomain "github.com/studiolane/studiolane/internal/sitesetting/domain"
	"github.com/studiolane/studiolane/internal/synclock"
	"github.com/studiolane/studiolane/internal/templatesync/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	runLockKey = "studiolane:template_sync"
	runLockTTL = 15 * time.Minute
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Cfg     config.Config
	Locker  *synclock.Locker
	Metrics *obsmetrics.Metrics `optional:"true"`

	OrgRepo     orgdomain.Repository
	ServiceRepo catalogdomain.ItemRepository[catalogdomain.ServiceOffering]
	ProductRepo catalogdomain.ItemRepository[catalogdomain.Product]
	ArticleRepo catalogdomain.ItemRepository[catalogdomain.Article]
	CourseRepo  catalogdomain.ItemRepository[catalogdomain.Course]
	SettingRepo settingdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	cfg     config.Config
	locker  *synclock.Locker
	metrics *obsmetrics.Metrics

	orgRepo     orgdomain.Repository
	serviceRepo catalogdomain.ItemRepository[catalogdomain.ServiceOffering]
	productRepo catalogdomain.ItemRepository[catalogdomain.Product]
	articleRepo catalogdomain.ItemRepository[catalogdomain.Article]
	courseRepo  catalogdomain.ItemRepository[catalogdomain.Course]
	settingRepo settingdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("templatesync.service"),
		genID:       p.GenID,
		cfg:         p.Cfg,
		locker:      p.Locker,
		metrics:     p.Metrics,
		orgRepo:     p.OrgRepo,
		serviceRepo: p.ServiceRepo,
		productRepo: p.ProductRepo,
		articleRepo: p.ArticleRepo,
		courseRepo:  p.CourseRepo,
		settingRepo: p.SettingRepo,
	}
}

// templateState is the template organization's full content, loaded once per
// pass and read-shared across all tenants.
type templateState struct {
	org      orgdomain.Organization
	services []catalogdomain.ServiceOffering
	products []catalogdomain.Product
	articles []catalogdomain.Article
	courses  []catalogdomain.Course
	settings *settingdomain.SiteSetting
}

// Run executes one reconciliation pass. One tenant's failure rolls back that
// tenant only; the pass continues and the failure lands in the report's
// error list.
func (s *Service) Run(ctx context.Context) (*domain.Report, error) {
	token, acquired, err := s.locker.TryLock(ctx, runLockKey, runLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return nil, domain.ErrSyncInProgress
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), runLockKey, token); err != nil {
			s.log.Warn("release run lock failed", zap.Error(err))
		}
	}()

	ctx, span := otel.Tracer("studiolane/templatesync").Start(ctx, "template_sync.run")
	defer span.End()

	runID := ulid.Make().String()
	log := s.log.With(zap.String("run_id", runID))
	span.SetAttributes(attribute.String("run_id", runID))

	tpl, err := s.loadTemplate(ctx)
	if err != nil {
		s.metrics.RecordSyncRun(ctx, false)
		return nil, err
	}

	tenants, err := s.loadTenants(ctx, tpl.org.ID)
	if err != nil {
		s.metrics.RecordSyncRun(ctx, false)
		return nil, err
	}

	report := &domain.Report{
		RunID:        runID,
		TemplateName: tpl.org.Name,
		TotalCount:   len(tenants),
		StartedAt:    time.Now().UTC(),
	}

	for i := range tenants {
		tenant := tenants[i]
		counts, err := s.syncTenant(ctx, tenant, tpl)
		if err != nil {
			log.Error("tenant sync failed",
				zap.String("org_id", tenant.ID.String()),
				zap.String("org_name", tenant.Name),
				zap.Error(err),
			)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", tenant.Name, err))
			s.metrics.RecordSyncTenant(ctx, "error")
			continue
		}

		counts.MergeInto(report)
		report.SyncedCount++
		s.metrics.RecordSyncTenant(ctx, "synced")
		s.recordItemMetrics(ctx, counts)
	}

	report.Success = len(report.Errors) == 0
	report.FinishedAt = time.Now().UTC()
	s.metrics.RecordSyncRun(ctx, report.Success)

	log.Info("reconciliation pass finished",
		zap.Bool("success", report.Success),
		zap.Int("synced_count", report.SyncedCount),
		zap.Int("total_count", report.TotalCount),
		zap.Int("errors", len(report.Errors)),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (s *Service) loadTemplate(ctx context.Context) (*templateState, error) {
	org, err := s.orgRepo.FindBySlug(ctx, s.db, s.cfg.TemplateOrgSlug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, fmt.Errorf("%w: slug %q", domain.ErrTemplateOrgNotFound, s.cfg.TemplateOrgSlug)
	}

	tpl := &templateState{org: *org}
	if tpl.services, err = s.serviceRepo.FindAll(ctx, s.db, org.ID); err != nil {
		return nil, err
	}
	if tpl.products, err = s.productRepo.FindAll(ctx, s.db, org.ID); err != nil {
		return nil, err
	}
	if tpl.articles, err = s.articleRepo.FindAll(ctx, s.db, org.ID); err != nil {
		return nil, err
	}
	if tpl.courses, err = s.courseRepo.FindAll(ctx, s.db, org.ID); err != nil {
		return nil, err
	}
	if tpl.settings, err = s.settingRepo.FindByOrg(ctx, s.db, org.ID); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *Service) loadTenants(ctx context.Context, templateOrgID snowflake.ID) ([]orgdomain.Organization, error) {
	orgs, err := s.orgRepo.FindByStatus(ctx, s.db, []orgdomain.OrgStatus{
		orgdomain.StatusActive,
		orgdomain.StatusTrial,
	})
	if err != nil {
		return nil, err
	}

	// The template organization is never a reconciliation target.
	tenants := orgs[:0]
	for _, org := range orgs {
		if org.ID != templateOrgID {
			tenants = append(tenants, org)
		}
	}
	return tenants, nil
}

// syncTenant runs all type synchronizers for one tenant inside a single
// transaction bounded by the configured timeout. Counts are returned only
// when the transaction commits.
func (s *Service) syncTenant(ctx context.Context, tenant orgdomain.Organization, tpl *templateState) (domain.TenantCounts, error) {
	tenantCtx, cancel := context.WithTimeout(ctx, s.cfg.SyncTenantTimeout)
	defer cancel()

	tenantCtx, span := otel.Tracer("studiolane/templatesync").Start(tenantCtx, "template_sync.tenant")
	span.SetAttributes(
		attribute.String("org_id", tenant.ID.String()),
		attribute.String("org_slug", tenant.Slug),
	)
	defer span.End()

	var counts domain.TenantCounts
	now := time.Now().UTC()

	err := s.db.WithContext(tenantCtx).Transaction(func(tx *gorm.DB) error {
		var err error
		if counts.Services, err = syncItems[catalogdomain.ServiceOffering, *catalogdomain.ServiceOffering](tenantCtx, tx, s.serviceRepo, s.genID, tenant.ID, tpl.services, now); err != nil {
			return err
		}
		if counts.Products, err = syncItems[catalogdomain.Product, *catalogdomain.Product](tenantCtx, tx, s.productRepo, s.genID, tenant.ID, tpl.products, now); err != nil {
			return err
		}
		if counts.Articles, err = syncItems[catalogdomain.Article, *catalogdomain.Article](tenantCtx, tx, s.articleRepo, s.genID, tenant.ID, tpl.articles, now); err != nil {
			return err
		}
		if counts.Courses, err = syncItems[catalogdomain.Course, *catalogdomain.Course](tenantCtx, tx, s.courseRepo, s.genID, tenant.ID, tpl.courses, now); err != nil {
			return err
		}
		if counts.SiteSettings, err = syncSettings(tenantCtx, tx, s.settingRepo, s.genID, tenant, tpl.settings, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return domain.TenantCounts{}, err
	}
	return counts, nil
}

func (s *Service) recordItemMetrics(ctx context.Context, counts domain.TenantCounts) {
	byKind := map[catalogdomain.Kind]domain.TypeCounts{
		catalogdomain.KindService: counts.Services,
		catalogdomain.KindProduct: counts.Products,
		catalogdomain.KindArticle: counts.Articles,
		catalogdomain.KindCourse:  counts.Courses,
		"site_settings":           counts.SiteSettings,
	}
	for kind, tally := range byKind {
		s.metrics.RecordSyncItems(ctx, string(kind), "created", int64(tally.Created))
		s.metrics.RecordSyncItems(ctx, string(kind), "updated", int64(tally.Updated))
		s.metrics.RecordSyncItems(ctx, string(kind), "skipped", int64(tally.Skipped))
	}
}
