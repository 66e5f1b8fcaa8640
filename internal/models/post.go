// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a target content record that templates are applied onto.
// Post types are open-ended strings ("post", "page", or any custom type
// registered by the hosting site); which types may use templates at all
// is controlled by the enabled_post_types setting.
type Post struct {
	ID              int64      `json:"id"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Excerpt         string     `json:"excerpt"`
	Status          PostStatus `json:"status"`
	FeaturedImageID *int64     `json:"featured_image_id,omitempty"`
	AuthorID        int64      `json:"author_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
