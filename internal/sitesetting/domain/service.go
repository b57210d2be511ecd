package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Get returns the organization's settings, creating the default record
	// first if none exists.
	Get(ctx context.Context, orgID snowflake.ID) (*SiteSetting, error)
	// Update applies tenant edits. Every written allow-listed field is
	// recorded in the customized-field map.
	Update(ctx context.Context, orgID snowflake.ID, req UpdateRequest) (*SiteSetting, error)
	// EnsureDefault creates the default settings record when missing.
	EnsureDefault(ctx context.Context, orgID snowflake.ID) (*SiteSetting, error)
}

// UpdateRequest carries tenant edits; nil fields are left untouched.
type UpdateRequest struct {
	SiteName     *string `json:"site_name"`
	ContactEmail *string `json:"contact_email"`

	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
	AccentColor    *string `json:"accent_color"`
	HeadingFont    *string `json:"heading_font"`
	BodyFont       *string `json:"body_font"`

	FounderName     *string `json:"founder_name"`
	FounderBio      *string `json:"founder_bio"`
	FounderPhotoURL *string `json:"founder_photo_url"`

	ImprintText *string `json:"imprint_text"`
	PrivacyText *string `json:"privacy_text"`
	TermsText   *string `json:"terms_text"`

	SeoTitle       *string `json:"seo_title"`
	SeoDescription *string `json:"seo_description"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
)
