// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"templatekit/internal/models"
)

// UsageStore manages the append-only template usage log. Rows are only
// ever inserted; statistics queries derive everything else from the log.
type UsageStore struct {
	db *sql.DB
}

// NewUsageStore returns a new UsageStore.
func NewUsageStore(db *sql.DB) *UsageStore {
	return &UsageStore{db: db}
}

// Record appends one usage event and returns it with the generated ID
// and timestamp.
func (s *UsageStore) Record(templateID, postID, userID int64) (*models.UsageEvent, error) {
	e := &models.UsageEvent{}
	err := s.db.QueryRow(`
		INSERT INTO template_usage (template_id, post_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, template_id, post_id, user_id, used_at
	`, templateID, postID, userID).Scan(&e.ID, &e.TemplateID, &e.PostID, &e.UserID, &e.UsedAt)
	if err != nil {
		return nil, fmt.Errorf("record template usage: %w", err)
	}
	return e, nil
}

// CountForTemplate returns the number of logged uses of one template.
func (s *UsageStore) CountForTemplate(templateID int64) (int64, error) {
	var count int64
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM template_usage WHERE template_id = $1
	`, templateID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count template usage: %w", err)
	}
	return count, nil
}

// Total returns the total number of usage events across all templates.
func (s *UsageStore) Total() (int64, error) {
	var count int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM template_usage`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("total template usage: %w", err)
	}
	return count, nil
}

// MostUsed returns the templates with the most logged uses, joined with
// their current titles. Templates deleted since their last use are
// excluded. Counts come from the log, not the cached counter.
func (s *UsageStore) MostUsed(limit int) ([]models.TemplateUsageCount, error) {
	rows, err := s.db.Query(`
		SELECT u.template_id, t.title, COUNT(u.id) AS usage_count
		FROM template_usage u
		JOIN templates t ON t.id = u.template_id
		GROUP BY u.template_id, t.title
		ORDER BY usage_count DESC, t.title
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("most used templates: %w", err)
	}
	defer rows.Close()

	items := []models.TemplateUsageCount{}
	for rows.Next() {
		var t models.TemplateUsageCount
		if err := rows.Scan(&t.TemplateID, &t.Title, &t.Count); err != nil {
			return nil, fmt.Errorf("scan usage count: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Recent returns the most recent usage events across all templates,
// joined with template, post, and user display names. Deleted posts or
// templates appear with empty titles rather than dropping the row.
func (s *UsageStore) Recent(limit int) ([]models.UsageRecord, error) {
	rows, err := s.db.Query(`
		SELECT COALESCE(t.title, ''), COALESCE(p.title, ''),
		       COALESCE(us.display_name, ''), u.used_at
		FROM template_usage u
		LEFT JOIN templates t ON t.id = u.template_id
		LEFT JOIN posts p ON p.id = u.post_id
		LEFT JOIN users us ON us.id = u.user_id
		ORDER BY u.used_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent template usage: %w", err)
	}
	defer rows.Close()

	return collectUsageRecords(rows)
}

// RecentForTemplate returns the latest usage events for one template,
// for the per-template usage panel.
func (s *UsageStore) RecentForTemplate(templateID int64, limit int) ([]models.UsageRecord, error) {
	rows, err := s.db.Query(`
		SELECT COALESCE(t.title, ''), COALESCE(p.title, ''),
		       COALESCE(us.display_name, ''), u.used_at
		FROM template_usage u
		LEFT JOIN templates t ON t.id = u.template_id
		LEFT JOIN posts p ON p.id = u.post_id
		LEFT JOIN users us ON us.id = u.user_id
		WHERE u.template_id = $1
		ORDER BY u.used_at DESC
		LIMIT $2
	`, templateID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent usage for template: %w", err)
	}
	defer rows.Close()

	return collectUsageRecords(rows)
}

// collectUsageRecords scans joined usage rows into a slice.
func collectUsageRecords(rows *sql.Rows) ([]models.UsageRecord, error) {
	items := []models.UsageRecord{}
	for rows.Next() {
		var r models.UsageRecord
		if err := rows.Scan(&r.TemplateTitle, &r.PostTitle, &r.UserName, &r.UsedAt); err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
