// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "testing"

func TestSupportsPostType(t *testing.T) {
	tests := []struct {
		name     string
		targets  []string
		postType string
		want     bool
	}{
		{"listed type", []string{"post", "page"}, "post", true},
		{"second listed type", []string{"post", "page"}, "page", true},
		{"unlisted type", []string{"post"}, "page", false},
		{"empty targets default to post", nil, "post", true},
		{"empty targets reject others", nil, "page", false},
		{"custom type", []string{"job_posting"}, "job_posting", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := &Template{TargetPostTypes: tt.targets}
			if got := tmpl.SupportsPostType(tt.postType); got != tt.want {
				t.Errorf("SupportsPostType(%q): got %v, want %v", tt.postType, got, tt.want)
			}
		})
	}
}
