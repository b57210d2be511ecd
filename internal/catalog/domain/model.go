// Package domain contains the synchronizable catalog types. Each type carries
// a lineage pointer back to the template organization's item it was cloned
// from, plus a customization flag that blocks template overwrites once a
// tenant has edited the record.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SyncState is embedded by every synchronizable catalog type.
type SyncState struct {
	TemplateSourceID *snowflake.ID `gorm:"column:template_source_id;uniqueIndex:,composite:org_source,priority:2" json:"template_source_id,omitempty"`
	IsCustomized     bool          `gorm:"column:is_customized;not null;default:false" json:"is_customized"`
}

// SourceID returns the lineage pointer, nil for tenant-authored records.
func (s SyncState) SourceID() *snowflake.ID { return s.TemplateSourceID }

// Customized reports whether the record is shielded from template overwrites.
func (s SyncState) Customized() bool { return s.IsCustomized }

// SetSource attaches the lineage pointer. It is set once, at clone time.
func (s *SyncState) SetSource(sourceID snowflake.ID) {
	src := sourceID
	s.TemplateSourceID = &src
}

// MarkCustomized flips the one-way customization gate.
func (s *SyncState) MarkCustomized() { s.IsCustomized = true }

// ServiceOffering is a bookable service (treatment, consultation, class slot).
type ServiceOffering struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:,composite:org_source,priority:1" json:"org_id"`
	SyncState

	Name            string  `gorm:"type:text;not null" json:"name"`
	Description     string  `gorm:"type:text" json:"description"`
	PriceCents      int64   `gorm:"not null;default:0" json:"price_cents"`
	Currency        string  `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	DurationMinutes int     `gorm:"not null;default:60" json:"duration_minutes"`
	ImageURL        string  `gorm:"type:text" json:"image_url"`
	Position        int     `gorm:"not null;default:0" json:"position"`
	Visible         bool    `gorm:"not null;default:true" json:"visible"`
	SeoTitle        string  `gorm:"type:text" json:"seo_title"`
	SeoDescription  string  `gorm:"type:text" json:"seo_description"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ServiceOffering) TableName() string { return "service_offerings" }

// GetID returns the record identity.
func (o ServiceOffering) GetID() snowflake.ID { return o.ID }

// GetOrgID returns the owning organization.
func (o ServiceOffering) GetOrgID() snowflake.ID { return o.OrgID }

// Init sets identity for a fresh record and resets its sync state.
func (o *ServiceOffering) Init(id, orgID snowflake.ID, now time.Time) {
	o.ID = id
	o.OrgID = orgID
	o.TemplateSourceID = nil
	o.IsCustomized = false
	o.CreatedAt = now
	o.UpdatedAt = now
}

// CopyContentFrom replaces every content attribute with src's values.
// Identity, lineage, and the customization flag are left untouched.
func (o *ServiceOffering) CopyContentFrom(src *ServiceOffering, now time.Time) {
	o.Name = src.Name
	o.Description = src.Description
	o.PriceCents = src.PriceCents
	o.Currency = src.Currency
	o.DurationMinutes = src.DurationMinutes
	o.ImageURL = src.ImageURL
	o.Position = src.Position
	o.Visible = src.Visible
	o.SeoTitle = src.SeoTitle
	o.SeoDescription = src.SeoDescription
	o.UpdatedAt = now
}

// Product is a physical or digital good sold by the tenant.
type Product struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:,composite:org_source,priority:1" json:"org_id"`
	SyncState

	Name           string `gorm:"type:text;not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
	SKU            string `gorm:"column:sku;type:text" json:"sku"`
	PriceCents     int64  `gorm:"not null;default:0" json:"price_cents"`
	Currency       string `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	ImageURL       string `gorm:"type:text" json:"image_url"`
	Position       int    `gorm:"not null;default:0" json:"position"`
	Visible        bool   `gorm:"not null;default:true" json:"visible"`
	SeoTitle       string `gorm:"type:text" json:"seo_title"`
	SeoDescription string `gorm:"type:text" json:"seo_description"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }

// GetID returns the record identity.
func (p Product) GetID() snowflake.ID { return p.ID }

// GetOrgID returns the owning organization.
func (p Product) GetOrgID() snowflake.ID { return p.OrgID }

// Init sets identity for a fresh record and resets its sync state.
func (p *Product) Init(id, orgID snowflake.ID, now time.Time) {
	p.ID = id
	p.OrgID = orgID
	p.TemplateSourceID = nil
	p.IsCustomized = false
	p.CreatedAt = now
	p.UpdatedAt = now
}

// CopyContentFrom replaces every content attribute with src's values.
func (p *Product) CopyContentFrom(src *Product, now time.Time) {
	p.Name = src.Name
	p.Description = src.Description
	p.SKU = src.SKU
	p.PriceCents = src.PriceCents
	p.Currency = src.Currency
	p.ImageURL = src.ImageURL
	p.Position = src.Position
	p.Visible = src.Visible
	p.SeoTitle = src.SeoTitle
	p.SeoDescription = src.SeoDescription
	p.UpdatedAt = now
}

// Article is a content page or blog entry on the tenant's site.
type Article struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:,composite:org_source,priority:1" json:"org_id"`
	SyncState

	Title          string `gorm:"type:text;not null" json:"title"`
	Excerpt        string `gorm:"type:text" json:"excerpt"`
	Body           string `gorm:"type:text" json:"body"`
	CoverImageURL  string `gorm:"type:text" json:"cover_image_url"`
	Position       int    `gorm:"not null;default:0" json:"position"`
	Published      bool   `gorm:"not null;default:false" json:"published"`
	SeoTitle       string `gorm:"type:text" json:"seo_title"`
	SeoDescription string `gorm:"type:text" json:"seo_description"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Article) TableName() string { return "articles" }

// GetID returns the record identity.
func (a Article) GetID() snowflake.ID { return a.ID }

// GetOrgID returns the owning organization.
func (a Article) GetOrgID() snowflake.ID { return a.OrgID }

// Init sets identity for a fresh record and resets its sync state.
func (a *Article) Init(id, orgID snowflake.ID, now time.Time) {
	a.ID = id
	a.OrgID = orgID
	a.TemplateSourceID = nil
	a.IsCustomized = false
	a.CreatedAt = now
	a.UpdatedAt = now
}

// CopyContentFrom replaces every content attribute with src's values.
func (a *Article) CopyContentFrom(src *Article, now time.Time) {
	a.Title = src.Title
	a.Excerpt = src.Excerpt
	a.Body = src.Body
	a.CoverImageURL = src.CoverImageURL
	a.Position = src.Position
	a.Published = src.Published
	a.SeoTitle = src.SeoTitle
	a.SeoDescription = src.SeoDescription
	a.UpdatedAt = now
}

// Course is a multi-session offering (workshop series, training program).
type Course struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:,composite:org_source,priority:1" json:"org_id"`
	SyncState

	Title          string `gorm:"type:text;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	PriceCents     int64  `gorm:"not null;default:0" json:"price_cents"`
	Currency       string `gorm:"type:text;not null;default:'EUR'" json:"currency"`
	SessionCount   int    `gorm:"not null;default:1" json:"session_count"`
	ImageURL       string `gorm:"type:text" json:"image_url"`
	Position       int    `gorm:"not null;default:0" json:"position"`
	Visible        bool   `gorm:"not null;default:true" json:"visible"`
	SeoTitle       string `gorm:"type:text" json:"seo_title"`
	SeoDescription string `gorm:"type:text" json:"seo_description"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Course) TableName() string { return "courses" }

// GetID returns the record identity.
func (c Course) GetID() snowflake.ID { return c.ID }

// GetOrgID returns the owning organization.
func (c Course) GetOrgID() snowflake.ID { return c.OrgID }

// Init sets identity for a fresh record and resets its sync state.
func (c *Course) Init(id, orgID snowflake.ID, now time.Time) {
	c.ID = id
	c.OrgID = orgID
	c.TemplateSourceID = nil
	c.IsCustomized = false
	c.CreatedAt = now
	c.UpdatedAt = now
}

// CopyContentFrom replaces every content attribute with src's values.
func (c *Course) CopyContentFrom(src *Course, now time.Time) {
	c.Title = src.Title
	c.Description = src.Description
	c.PriceCents = src.PriceCents
	c.Currency = src.Currency
	c.SessionCount = src.SessionCount
	c.ImageURL = src.ImageURL
	c.Position = src.Position
	c.Visible = src.Visible
	c.SeoTitle = src.SeoTitle
	c.SeoDescription = src.SeoDescription
	c.UpdatedAt = now
}
