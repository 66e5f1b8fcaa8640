// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// TemplateStatus represents the publishing state of a template.
// Only published templates are offered to editors; drafts are visible
// to administrators only.
type TemplateStatus string

const (
	TemplateStatusDraft     TemplateStatus = "draft"
	TemplateStatusPublished TemplateStatus = "published"
)

// Template is a reusable content preset that editors apply onto posts.
// The usage counters are display caches maintained by the application
// engine; the append-only usage log is the source of truth for statistics.
type Template struct {
	ID                     int64          `json:"id"`
	Title                  string         `json:"title"`
	Content                string         `json:"content"`
	Excerpt                string         `json:"excerpt"`
	Description            string         `json:"description"`
	Status                 TemplateStatus `json:"status"`
	TargetPostTypes        []string       `json:"target_post_types"`
	AutoApplyFeaturedImage bool           `json:"auto_apply_featured_image"`
	FeaturedImageID        *int64         `json:"featured_image_id,omitempty"`
	ThumbnailURL           string         `json:"thumbnail_url,omitempty"`
	SortOrder              int            `json:"sort_order"`
	UsageCount             int64          `json:"usage_count"`
	LastUsedAt             *time.Time     `json:"last_used_at,omitempty"`
	AuthorID               int64          `json:"author_id"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`

	// Populated by store methods that join category assignments.
	Categories []Category `json:"categories,omitempty"`
}

// SupportsPostType reports whether this template may be applied to posts
// of the given type. A template with no explicit targets is treated as
// targeting plain posts.
func (t *Template) SupportsPostType(postType string) bool {
	if len(t.TargetPostTypes) == 0 {
		return postType == "post"
	}
	for _, pt := range t.TargetPostTypes {
		if pt == postType {
			return true
		}
	}
	return false
}

// TemplateSummary is the reduced shape returned by list and search
// operations. It carries everything the selector UI needs to render a
// template card without fetching the full body.
type TemplateSummary struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Categories   []CategorySummary `json:"categories"`
	ThumbnailURL string            `json:"thumbnail_url,omitempty"`
	Excerpt      string            `json:"excerpt"`
	ModifiedAt   time.Time         `json:"modified_at"`
}
