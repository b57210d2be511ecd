package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/studiolane/studiolane/internal/organization/domain"
	"github.com/studiolane/studiolane/internal/organization/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOrganizations(t *testing.T) domain.Service {
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

	if err := db.AutoMigrate(&domain.Organization{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateSlugifiesName(t *testing.T) {
	svc := setupOrganizations(t)

	resp, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Café Überlingen"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Slug != "cafe-uberlingen" {
		t.Fatalf("expected slugified name, got %q", resp.Slug)
	}
	if resp.Status != string(domain.StatusTrial) {
		t.Fatalf("expected default TRIAL status, got %q", resp.Status)
	}
}

func TestCreateRejectsTakenSlug(t *testing.T) {
	svc := setupOrganizations(t)

	if _, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Studio Lane"}); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Studio Lane"}); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestUpdateStatusValidates(t *testing.T) {
	svc := setupOrganizations(t)

	resp, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Praxis Ost"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), resp.ID, "active")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != string(domain.StatusActive) {
		t.Fatalf("expected ACTIVE, got %q", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), resp.ID, "frozen"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := setupOrganizations(t)

	if _, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Active One", Status: "ACTIVE"}); err != nil {
		t.Fatalf("create active: %v", err)
	}
	if _, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Trial One"}); err != nil {
		t.Fatalf("create trial: %v", err)
	}

	active, err := svc.List(context.Background(), domain.ListRequest{Status: "ACTIVE"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Active One" {
		t.Fatalf("expected only the active organization, got %v", active)
	}
}
