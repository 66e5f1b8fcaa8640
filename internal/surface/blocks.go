// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package surface

import (
	"encoding/json"
	"strings"
)

// Block is one unit of structured editor content. Named blocks carry
// their delimiter name and optional JSON attributes; runs of markup
// outside any delimiter become unnamed blocks with just InnerHTML.
type Block struct {
	Name       string          `json:"name,omitempty"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	InnerHTML  string          `json:"inner_html"`
}

// Codec converts between canonical serialized content and a block
// list. The block grammar lives in the editor, not here, so it is a
// collaborator rather than a hardcoded parser.
type Codec interface {
	Parse(content string) []Block
	Serialize(blocks []Block) string
}

// DefaultCodec parses the comment-delimited block grammar:
//
//	<!-- block:name {"attr":1} -->markup<!-- /block:name -->
//
// Markup outside delimiters is preserved as unnamed blocks, so
// round-tripping content that uses no delimiters at all is lossless.
var DefaultCodec Codec = commentCodec{}

const (
	openMarker  = "<!-- block:"
	closeMarker = "<!-- /block:"
	markerEnd   = "-->"
)

type commentCodec struct{}

func (commentCodec) Parse(content string) []Block {
	var blocks []Block
	rest := content

	for {
		start := strings.Index(rest, openMarker)
		if start < 0 {
			break
		}
		if lead := strings.TrimSpace(rest[:start]); lead != "" {
			blocks = append(blocks, Block{InnerHTML: lead})
		}

		headerEnd := strings.Index(rest[start:], markerEnd)
		if headerEnd < 0 {
			// Unterminated delimiter, treat the remainder as markup.
			blocks = append(blocks, Block{InnerHTML: strings.TrimSpace(rest[start:])})
			return blocks
		}
		headerEnd += start

		name, attrs := splitHeader(rest[start+len(openMarker) : headerEnd])
		body := rest[headerEnd+len(markerEnd):]

		closing := closeMarker + name + " " + markerEnd
		bodyEnd := strings.Index(body, closing)
		if bodyEnd < 0 {
			blocks = append(blocks, Block{Name: name, Attributes: attrs, InnerHTML: strings.TrimSpace(body)})
			return blocks
		}

		blocks = append(blocks, Block{Name: name, Attributes: attrs, InnerHTML: strings.TrimSpace(body[:bodyEnd])})
		rest = body[bodyEnd+len(closing):]
	}

	if tail := strings.TrimSpace(rest); tail != "" {
		blocks = append(blocks, Block{InnerHTML: tail})
	}
	return blocks
}

func (commentCodec) Serialize(blocks []Block) string {
	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if blk.Name == "" {
			b.WriteString(blk.InnerHTML)
			continue
		}
		b.WriteString(openMarker)
		b.WriteString(blk.Name)
		if len(blk.Attributes) > 0 {
			b.WriteString(" ")
			b.Write(blk.Attributes)
		}
		b.WriteString(" " + markerEnd)
		if blk.InnerHTML != "" {
			b.WriteString("\n" + blk.InnerHTML + "\n")
		}
		b.WriteString(closing(blk.Name))
	}
	return b.String()
}

func closing(name string) string {
	return closeMarker + name + " " + markerEnd
}

// splitHeader separates "name {json}" into the block name and its raw
// attribute payload. Attributes are kept raw; validation belongs to
// the editor that defined the block.
func splitHeader(header string) (string, json.RawMessage) {
	header = strings.TrimSpace(header)
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		name := header[:i]
		attrs := strings.TrimSpace(header[i:])
		if attrs == "" {
			return name, nil
		}
		return name, json.RawMessage(attrs)
	}
	return header, nil
}

// Blocks is the structured editing surface: an ordered block list kept
// in parsed form, serialized on demand through its codec.
type Blocks struct {
	blocks []Block
	codec  Codec
}

// NewBlocks returns a block surface holding the given serialized
// content, parsed with the given codec.
func NewBlocks(content string, codec Codec) *Blocks {
	return &Blocks{blocks: codec.Parse(content), codec: codec}
}

// Kind identifies this as the block surface.
func (s *Blocks) Kind() Kind { return KindBlocks }

// HasContent reports whether any block holds markup.
func (s *Blocks) HasContent() bool {
	for _, b := range s.blocks {
		if strings.TrimSpace(b.InnerHTML) != "" {
			return true
		}
	}
	return false
}

// CurrentContent serializes the block list back to canonical form.
func (s *Blocks) CurrentContent() string {
	return s.codec.Serialize(s.blocks)
}

// ReplaceContent reparses the surface from the given serialized content.
func (s *Blocks) ReplaceContent(content string) {
	s.blocks = s.codec.Parse(content)
}

// List returns the parsed blocks for callers that render block
// payloads directly, such as the template content endpoint.
func (s *Blocks) List() []Block {
	return s.blocks
}
