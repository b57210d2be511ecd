package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/studiolane/studiolane/internal/organization/domain"
	"github.com/studiolane/studiolane/internal/sitesetting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	OrgRepo orgdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	orgRepo orgdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("sitesetting.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		orgRepo: p.OrgRepo,
	}
}

func (s *Service) Get(ctx context.Context, orgID snowflake.ID) (*domain.SiteSetting, error) {
	return s.EnsureDefault(ctx, orgID)
}

func (s *Service) EnsureDefault(ctx context.Context, orgID snowflake.ID) (*domain.SiteSetting, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	var setting *domain.SiteSetting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		setting, err = s.repo.FindByOrg(ctx, tx, orgID)
		if err != nil {
			return err
		}
		if setting != nil {
			return nil
		}

		org, err := s.orgRepo.FindByID(ctx, tx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrInvalidOrganization
		}

		now := time.Now().UTC()
		setting = &domain.SiteSetting{
			ID:               s.genID.Generate(),
			OrgID:            orgID,
			SiteName:         org.Name,
			CustomizedFields: datatypes.JSONMap{},
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return s.repo.Insert(ctx, tx, setting)
	})
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *Service) Update(ctx context.Context, orgID snowflake.ID, req domain.UpdateRequest) (*domain.SiteSetting, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	setting, err := s.EnsureDefault(ctx, orgID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.SiteName != nil {
			setting.SiteName = *req.SiteName
		}
		if req.ContactEmail != nil {
			setting.ContactEmail = *req.ContactEmail
		}

		for name, value := range syncableEdits(req) {
			domain.SyncableFields[name].Set(setting, value)
			setting.MarkFieldCustomized(name)
		}

		setting.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, setting)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("site settings updated",
		zap.String("org_id", orgID.String()),
		zap.Int("customized_fields", len(setting.CustomizedFields)),
	)
	return setting, nil
}

// syncableEdits collects the allow-listed fields the tenant actually wrote.
func syncableEdits(req domain.UpdateRequest) map[string]string {
	edits := map[string]*string{
		"primary_color":     req.PrimaryColor,
		"secondary_color":   req.SecondaryColor,
		"accent_color":      req.AccentColor,
		"heading_font":      req.HeadingFont,
		"body_font":         req.BodyFont,
		"founder_name":      req.FounderName,
		"founder_bio":       req.FounderBio,
		"founder_photo_url": req.FounderPhotoURL,
		"imprint_text":      req.ImprintText,
		"privacy_text":      req.PrivacyText,
		"terms_text":        req.TermsText,
		"seo_title":         req.SeoTitle,
		"seo_description":   req.SeoDescription,
	}

	out := make(map[string]string)
	for name, value := range edits {
		if value != nil {
			out[name] = *value
		}
	}
	return out
}
