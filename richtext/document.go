// Package richtext converts editor-produced rich document trees into HTML,
// plain text, reading-time estimates and excerpts. All conversions are total:
// nil or malformed input degrades to an empty result, never an error, so page
// rendering stays resilient to partially-invalid content.
package richtext

import "encoding/json"

// Node is one node of a rich document tree. Only text nodes carry Text and
// Marks; every other kind carries Content.
type Node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []*Node        `json:"content,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

// Mark is an inline formatting annotation on a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Kind is the closed set of node kinds the converter understands. Anything
// else maps to KindUnknown and renders its children only.
type Kind int

const (
	KindUnknown Kind = iota
	KindDoc
	KindParagraph
	KindHeading
	KindBulletList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindImage
	KindHardBreak
	KindHorizontalRule
	KindText
)

var kindNames = map[string]Kind{
	"doc":            KindDoc,
	"paragraph":      KindParagraph,
	"heading":        KindHeading,
	"bulletList":     KindBulletList,
	"orderedList":    KindOrderedList,
	"listItem":       KindListItem,
	"blockquote":     KindBlockquote,
	"codeBlock":      KindCodeBlock,
	"image":          KindImage,
	"hardBreak":      KindHardBreak,
	"horizontalRule": KindHorizontalRule,
	"text":           KindText,
}

// Kind maps the node's type string onto the closed kind set.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindUnknown
	}
	return kindNames[n.Type]
}

// ParseDocument decodes a JSON document tree. Empty or malformed input yields
// a nil document, which every conversion treats as empty.
func ParseDocument(raw []byte) *Node {
	if len(raw) == 0 {
		return nil
	}
	var n Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

func attrString(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	if s, ok := attrs[key].(string); ok {
		return s
	}
	return ""
}

func attrInt(attrs map[string]any, key string) (int, bool) {
	if attrs == nil {
		return 0, false
	}
	switch v := attrs[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
