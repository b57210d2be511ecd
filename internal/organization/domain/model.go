// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// OrgStatus is the lifecycle state of an organization.
type OrgStatus string

const (
	StatusActive    OrgStatus = "ACTIVE"
	StatusTrial     OrgStatus = "TRIAL"
	StatusSuspended OrgStatus = "SUSPENDED"
	StatusCancelled OrgStatus = "CANCELLED"
)

// Organization represents a tenant. The organization holding the canonical
// content template is identified by its well-known slug.
type Organization struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Slug      string            `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	Status    OrgStatus         `gorm:"type:text;not null;default:'TRIAL';index" json:"status"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Receivable reports whether the organization is eligible to receive
// template content.
func (o Organization) Receivable() bool {
	return o.Status == StatusActive || o.Status == StatusTrial
}
