// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package surface

import "strings"

// RichText is the classic editing surface: a single rich-text buffer.
// Content is stored verbatim; whitespace-only content counts as empty.
type RichText struct {
	content string
}

// NewRichText returns a rich-text surface holding the given content.
func NewRichText(content string) *RichText {
	return &RichText{content: content}
}

// Kind identifies this as the rich-text surface.
func (s *RichText) Kind() Kind { return KindRichText }

// HasContent reports whether the buffer holds non-whitespace content.
func (s *RichText) HasContent() bool {
	return strings.TrimSpace(s.content) != ""
}

// CurrentContent returns the buffer verbatim.
func (s *RichText) CurrentContent() string {
	return s.content
}

// ReplaceContent overwrites the buffer.
func (s *RichText) ReplaceContent(content string) {
	s.content = content
}
