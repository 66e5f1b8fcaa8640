// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"testing"

	"templatekit/internal/models"
)

func TestCanEditPost(t *testing.T) {
	c := NewChecker()

	for _, role := range []models.Role{models.RoleAdmin, models.RoleEditor, models.RoleAuthor} {
		if !c.CanEditPost(&models.User{ID: 1, Role: role}, 10) {
			t.Errorf("role %s should be allowed to edit posts", role)
		}
	}

	if c.CanEditPost(nil, 10) {
		t.Error("nil user must be denied")
	}
	if c.CanEditPost(&models.User{ID: 1, Role: models.RoleEditor}, 0) {
		t.Error("non-positive post id must be denied")
	}
	if c.CanEditPost(&models.User{ID: 1, Role: "viewer"}, 10) {
		t.Error("unknown role must be denied")
	}
}

func TestCanManageTemplates(t *testing.T) {
	c := NewChecker()

	if !c.CanManageTemplates(&models.User{Role: models.RoleAdmin}) {
		t.Error("admin should manage templates")
	}
	if c.CanManageTemplates(&models.User{Role: models.RoleEditor}) {
		t.Error("editor must not manage templates")
	}
	if c.CanManageTemplates(nil) {
		t.Error("nil user must be denied")
	}
}
