package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gosimpleslug "github.com/gosimple/slug"
	"github.com/studiolane/studiolane/internal/organization/domain"
	"github.com/studiolane/studiolane/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	slugValue := strings.TrimSpace(req.Slug)
	if slugValue == "" {
		slugValue = name
	}
	slugValue = gosimpleslug.Make(slugValue)

	status, err := parseStatus(req.Status, domain.StatusTrial)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := &domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Slug:      slugValue,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindBySlug(ctx, tx, slugValue)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrSlugTaken
		}
		return s.repo.Insert(ctx, tx, org)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	return toResponse(org), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.FindByID(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(org), nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Response, error) {
	org, err := s.repo.FindBySlug(ctx, s.db, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(org), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	statuses := []domain.OrgStatus{domain.StatusActive, domain.StatusTrial, domain.StatusSuspended, domain.StatusCancelled}
	if strings.TrimSpace(req.Status) != "" {
		status, err := parseStatus(req.Status, "")
		if err != nil {
			return nil, err
		}
		statuses = []domain.OrgStatus{status}
	}

	orgs, err := s.repo.FindByStatus(ctx, s.db, statuses)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(orgs))
	for i := range orgs {
		out = append(out, *toResponse(&orgs[i]))
	}
	return out, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*domain.Response, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidOrganization
	}

	next, err := parseStatus(status, "")
	if err != nil {
		return nil, err
	}

	var org *domain.Organization
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err = s.repo.FindByID(ctx, tx, orgID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.ErrNotFound
		}
		org.Status = next
		org.UpdatedAt = time.Now().UTC()
		return s.repo.Update(ctx, tx, org)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(org), nil
}

func parseStatus(raw string, def domain.OrgStatus) (domain.OrgStatus, error) {
	value := domain.OrgStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if value == "" {
		if def == "" {
			return "", domain.ErrInvalidStatus
		}
		return def, nil
	}
	switch value {
	case domain.StatusActive, domain.StatusTrial, domain.StatusSuspended, domain.StatusCancelled:
		return value, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}

func parseID(raw string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(parsed), nil
}

func toResponse(org *domain.Organization) *domain.Response {
	return &domain.Response{
		ID:        org.ID.String(),
		Name:      org.Name,
		Slug:      org.Slug,
		Status:    string(org.Status),
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
