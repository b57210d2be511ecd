package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Response, error)
}

type CreateRequest struct {
	Name   string
	Slug   string
	Status string
}

type ListRequest struct {
	Status string
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrSlugTaken           = errors.New("slug_taken")
	ErrNotFound            = errors.New("organization_not_found")
)
