package domain

import (
	"context"
	"errors"
)

// Service runs reconciliation passes. Authorization happens upstream; callers
// are assumed to hold the platform administrator role.
type Service interface {
	Run(ctx context.Context) (*Report, error)
}

var (
	// ErrTemplateOrgNotFound aborts the whole pass before any tenant is touched.
	ErrTemplateOrgNotFound = errors.New("template_organization_not_found")
	// ErrSyncInProgress is returned when another pass already holds the run lock.
	ErrSyncInProgress = errors.New("sync_already_in_progress")
)
