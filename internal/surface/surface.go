// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package surface abstracts the two editing surfaces template content
// is injected into: a classic rich-text area and a structured block
// list. Callers pick a surface once for the editor in use and work
// against the ContentSurface interface from then on, instead of
// branching on the editor kind at every step.
package surface

import "fmt"

// Kind identifies an editing surface.
type Kind string

const (
	// KindRichText is the classic editor: one rich-text buffer.
	KindRichText Kind = "richtext"

	// KindBlocks is the structured editor: an ordered block list.
	KindBlocks Kind = "blocks"
)

// ContentSurface is the capability interface both editing surfaces
// implement. ReplaceContent is how an applied template's content lands
// in the editor; HasContent lets callers warn before overwriting
// existing work.
type ContentSurface interface {
	// Kind identifies which surface variant this is.
	Kind() Kind

	// HasContent reports whether the surface holds any non-empty content.
	HasContent() bool

	// CurrentContent returns the surface's content serialized to its
	// canonical string form.
	CurrentContent() string

	// ReplaceContent overwrites the surface's content with the given
	// serialized content.
	ReplaceContent(content string)
}

// New returns the surface for the given kind, initialized with the
// given content. Unknown kinds are an error so a typo in the editor
// name fails loudly instead of silently defaulting.
func New(kind Kind, content string) (ContentSurface, error) {
	switch kind {
	case KindRichText:
		return NewRichText(content), nil
	case KindBlocks:
		return NewBlocks(content, DefaultCodec), nil
	default:
		return nil, fmt.Errorf("unknown surface kind %q", kind)
	}
}
