// Package domain defines the reconciliation pass result types. A pass
// propagates the template organization's content to every receiving tenant
// and reports per-type outcome counts; the report is the call's result value,
// never persisted.
package domain

import "time"

// TypeCounts tallies item outcomes for one synchronizable type.
type TypeCounts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Add accumulates another tally into c.
func (c *TypeCounts) Add(other TypeCounts) {
	c.Created += other.Created
	c.Updated += other.Updated
	c.Skipped += other.Skipped
}

// Report summarizes one reconciliation pass across all tenants.
type Report struct {
	RunID        string `json:"run_id"`
	Success      bool   `json:"success"`
	SyncedCount  int    `json:"synced_count"`
	TotalCount   int    `json:"total_count"`
	TemplateName string `json:"template_name"`

	Services     TypeCounts `json:"services"`
	Products     TypeCounts `json:"products"`
	Articles     TypeCounts `json:"articles"`
	Courses      TypeCounts `json:"courses"`
	SiteSettings TypeCounts `json:"site_settings"`

	Errors []string `json:"errors,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// TenantCounts is one tenant's contribution to the report. It is merged into
// the report only after the tenant's transaction commits, so a rolled-back
// tenant leaves no trace in the totals.
type TenantCounts struct {
	Services     TypeCounts
	Products     TypeCounts
	Articles     TypeCounts
	Courses      TypeCounts
	SiteSettings TypeCounts
}

// MergeInto folds the tenant's counts into the aggregate report.
func (t TenantCounts) MergeInto(r *Report) {
	r.Services.Add(t.Services)
	r.Products.Add(t.Products)
	r.Articles.Add(t.Articles)
	r.Courses.Add(t.Courses)
	r.SiteSettings.Add(t.SiteSettings)
}
