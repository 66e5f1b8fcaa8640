// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements the capability checks the application engine
// consults. Rules are role-based: any authenticated role may edit posts
// and therefore apply templates; managing templates (duplication,
// categories, settings) requires the admin role.
package auth

import "templatekit/internal/models"

// Checker implements engine.PermissionChecker with role-based rules.
type Checker struct{}

// NewChecker returns a role-based permission checker.
func NewChecker() *Checker {
	return &Checker{}
}

// CanEditPost reports whether the user may edit the given post. All
// authenticated roles hold edit permission; the post ID is part of the
// contract so finer-grained backends (per-post ownership) can slot in
// without changing callers.
func (c *Checker) CanEditPost(user *models.User, postID int64) bool {
	if user == nil || postID <= 0 {
		return false
	}
	switch user.Role {
	case models.RoleAdmin, models.RoleEditor, models.RoleAuthor:
		return true
	}
	return false
}

// CanManageTemplates reports whether the user may perform
// administrative template operations.
func (c *Checker) CanManageTemplates(user *models.User) bool {
	return user != nil && user.IsAdmin()
}
