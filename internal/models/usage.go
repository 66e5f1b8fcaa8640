// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// UsageEvent is one append-only log record: a template was applied to a
// post by a user at a point in time. Events are never updated or deleted.
type UsageEvent struct {
	ID         int64     `json:"id"`
	TemplateID int64     `json:"template_id"`
	PostID     int64     `json:"post_id"`
	UserID     int64     `json:"user_id"`
	UsedAt     time.Time `json:"used_at"`
}

// UsageRecord is a usage event joined with display names for the
// statistics dashboard. Titles may be empty when the referenced post or
// template has since been deleted.
type UsageRecord struct {
	TemplateTitle string    `json:"template_title"`
	PostTitle     string    `json:"post_title"`
	UserName      string    `json:"user_name"`
	UsedAt        time.Time `json:"used_at"`
}

// TemplateUsageCount pairs a template with its total application count,
// derived from the usage log rather than the cached counter.
type TemplateUsageCount struct {
	TemplateID int64  `json:"template_id"`
	Title      string `json:"title"`
	Count      int64  `json:"count"`
}

// UsageSummary holds the aggregate numbers shown at the top of the
// statistics dashboard.
type UsageSummary struct {
	TotalTemplates int64   `json:"total_templates"`
	TotalUsage     int64   `json:"total_usage"`
	AverageUsage   float64 `json:"average_usage"`
}
