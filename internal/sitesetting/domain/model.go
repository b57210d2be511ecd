// Package domain contains the per-organization site settings record. Unlike
// catalog items, settings synchronize at field granularity: each allow-listed
// field can be individually customized and thereby excluded from template
// reconciliation.
package domain

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CustomizedMarker is the value stored per field in CustomizedFields.
const CustomizedMarker = "customized"

// SiteSetting holds presentation settings for one organization. Exactly one
// record exists per organization.
type SiteSetting struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:ux_site_settings_org" json:"org_id"`

	// Identity fields, never propagated from the template.
	SiteName     string `gorm:"type:text;not null" json:"site_name"`
	ContactEmail string `gorm:"type:text" json:"contact_email"`

	PrimaryColor   string `gorm:"type:text" json:"primary_color"`
	SecondaryColor string `gorm:"type:text" json:"secondary_color"`
	AccentColor    string `gorm:"type:text" json:"accent_color"`
	HeadingFont    string `gorm:"type:text" json:"heading_font"`
	BodyFont       string `gorm:"type:text" json:"body_font"`

	FounderName     string `gorm:"type:text" json:"founder_name"`
	FounderBio      string `gorm:"type:text" json:"founder_bio"`
	FounderPhotoURL string `gorm:"type:text" json:"founder_photo_url"`

	ImprintText string `gorm:"type:text" json:"imprint_text"`
	PrivacyText string `gorm:"type:text" json:"privacy_text"`
	TermsText   string `gorm:"type:text" json:"terms_text"`

	SeoTitle       string `gorm:"type:text" json:"seo_title"`
	SeoDescription string `gorm:"type:text" json:"seo_description"`

	// CustomizedFields maps field name to CustomizedMarker. A field listed
	// here is never overwritten by reconciliation.
	CustomizedFields datatypes.JSONMap `gorm:"type:jsonb" json:"customized_fields"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (SiteSetting) TableName() string { return "site_settings" }

// FieldAccessor reads and writes one syncable settings field.
type FieldAccessor struct {
	Get func(*SiteSetting) string
	Set func(*SiteSetting, string)
}

// SyncableFields is the fixed allow-list of fields propagated from the
// template record. Identity fields (site_name, contact_email) are
// intentionally absent.
var SyncableFields = map[string]FieldAccessor{
	"primary_color": {
		Get: func(s *SiteSetting) string { return s.PrimaryColor },
		Set: func(s *SiteSetting, v string) { s.PrimaryColor = v },
	},
	"secondary_color": {
		Get: func(s *SiteSetting) string { return s.SecondaryColor },
		Set: func(s *SiteSetting, v string) { s.SecondaryColor = v },
	},
	"accent_color": {
		Get: func(s *SiteSetting) string { return s.AccentColor },
		Set: func(s *SiteSetting, v string) { s.AccentColor = v },
	},
	"heading_font": {
		Get: func(s *SiteSetting) string { return s.HeadingFont },
		Set: func(s *SiteSetting, v string) { s.HeadingFont = v },
	},
	"body_font": {
		Get: func(s *SiteSetting) string { return s.BodyFont },
		Set: func(s *SiteSetting, v string) { s.BodyFont = v },
	},
	"founder_name": {
		Get: func(s *SiteSetting) string { return s.FounderName },
		Set: func(s *SiteSetting, v string) { s.FounderName = v },
	},
	"founder_bio": {
		Get: func(s *SiteSetting) string { return s.FounderBio },
		Set: func(s *SiteSetting, v string) { s.FounderBio = v },
	},
	"founder_photo_url": {
		Get: func(s *SiteSetting) string { return s.FounderPhotoURL },
		Set: func(s *SiteSetting, v string) { s.FounderPhotoURL = v },
	},
	"imprint_text": {
		Get: func(s *SiteSetting) string { return s.ImprintText },
		Set: func(s *SiteSetting, v string) { s.ImprintText = v },
	},
	"privacy_text": {
		Get: func(s *SiteSetting) string { return s.PrivacyText },
		Set: func(s *SiteSetting, v string) { s.PrivacyText = v },
	},
	"terms_text": {
		Get: func(s *SiteSetting) string { return s.TermsText },
		Set: func(s *SiteSetting, v string) { s.TermsText = v },
	},
	"seo_title": {
		Get: func(s *SiteSetting) string { return s.SeoTitle },
		Set: func(s *SiteSetting, v string) { s.SeoTitle = v },
	},
	"seo_description": {
		Get: func(s *SiteSetting) string { return s.SeoDescription },
		Set: func(s *SiteSetting, v string) { s.SeoDescription = v },
	},
}

// SyncableFieldNames returns the allow-list in stable order.
func SyncableFieldNames() []string {
	names := make([]string, 0, len(SyncableFields))
	for name := range SyncableFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFieldCustomized reports whether the named field is excluded from sync.
func (s *SiteSetting) IsFieldCustomized(name string) bool {
	if s.CustomizedFields == nil {
		return false
	}
	_, ok := s.CustomizedFields[name]
	return ok
}

// MarkFieldCustomized records a tenant override for the named field.
func (s *SiteSetting) MarkFieldCustomized(name string) {
	if s.CustomizedFields == nil {
		s.CustomizedFields = datatypes.JSONMap{}
	}
	s.CustomizedFields[name] = CustomizedMarker
}
