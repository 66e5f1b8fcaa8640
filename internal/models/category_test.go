// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestValidCategoryIcon(t *testing.T) {
	for _, icon := range CategoryIcons {
		if !ValidCategoryIcon(icon) {
			t.Errorf("curated icon %q should be valid", icon)
		}
	}

	for _, icon := range []string{"", "unicorn", "Businessman"} {
		if ValidCategoryIcon(icon) {
			t.Errorf("%q should be invalid", icon)
		}
	}
}
