package richtext

import (
	"fmt"
	"html"
	"strings"
)

type markKind int

const (
	markUnknown markKind = iota
	markBold
	markItalic
	markUnderline
	markStrike
	markCode
	markHighlight
	markLink
)

var markKinds = map[string]markKind{
	"bold":      markBold,
	"italic":    markItalic,
	"underline": markUnderline,
	"strike":    markStrike,
	"code":      markCode,
	"highlight": markHighlight,
	"link":      markLink,
}

// markOrder fixes the nesting of inline tags, outermost first. Closing happens
// innermost-first so output is deterministic regardless of input mark order.
var markOrder = []markKind{markBold, markItalic, markUnderline, markStrike, markCode, markHighlight, markLink}

var markTags = map[markKind]string{
	markBold:      "strong",
	markItalic:    "em",
	markUnderline: "u",
	markStrike:    "s",
	markCode:      "code",
	markHighlight: "mark",
	markLink:      "a",
}

var textAligns = map[string]bool{
	"left":    true,
	"center":  true,
	"right":   true,
	"justify": true,
}

// ToHTML renders the document tree as HTML. Text and attribute values are
// HTML-escaped. Unknown node kinds render their children without a wrapping
// tag, unknown marks are skipped.
func ToHTML(root *Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	renderNode(&b, root)
	return b.String()
}

func renderNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case KindText:
		renderText(b, n)
	case KindParagraph:
		b.WriteString("<p")
		writeAlign(b, n)
		b.WriteString(">")
		renderChildren(b, n)
		b.WriteString("</p>")
	case KindHeading:
		level := headingLevel(n)
		fmt.Fprintf(b, "<h%d", level)
		writeAlign(b, n)
		b.WriteString(">")
		renderChildren(b, n)
		fmt.Fprintf(b, "</h%d>", level)
	case KindBulletList:
		b.WriteString("<ul>")
		renderChildren(b, n)
		b.WriteString("</ul>")
	case KindOrderedList:
		b.WriteString("<ol>")
		renderChildren(b, n)
		b.WriteString("</ol>")
	case KindListItem:
		b.WriteString("<li>")
		renderChildren(b, n)
		b.WriteString("</li>")
	case KindBlockquote:
		b.WriteString("<blockquote>")
		renderChildren(b, n)
		b.WriteString("</blockquote>")
	case KindCodeBlock:
		b.WriteString("<pre><code")
		if lang := attrString(n.Attrs, "language"); lang != "" {
			b.WriteString(` class="language-` + html.EscapeString(lang) + `"`)
		}
		b.WriteString(">")
		renderChildren(b, n)
		b.WriteString("</code></pre>")
	case KindImage:
		src := attrString(n.Attrs, "src")
		if src == "" {
			return
		}
		b.WriteString(`<img src="` + html.EscapeString(src) + `"`)
		if alt := attrString(n.Attrs, "alt"); alt != "" {
			b.WriteString(` alt="` + html.EscapeString(alt) + `"`)
		}
		if title := attrString(n.Attrs, "title"); title != "" {
			b.WriteString(` title="` + html.EscapeString(title) + `"`)
		}
		b.WriteString(">")
	case KindHardBreak:
		b.WriteString("<br>")
	case KindHorizontalRule:
		b.WriteString("<hr>")
	default:
		// KindDoc and KindUnknown both render children only.
		renderChildren(b, n)
	}
}

func renderChildren(b *strings.Builder, n *Node) {
	for _, child := range n.Content {
		renderNode(b, child)
	}
}

func renderText(b *strings.Builder, n *Node) {
	present := make(map[markKind]Mark, len(n.Marks))
	for _, m := range n.Marks {
		k := markKinds[m.Type]
		if k == markUnknown {
			continue
		}
		if _, seen := present[k]; !seen {
			present[k] = m
		}
	}

	opened := make([]markKind, 0, len(present))
	for _, k := range markOrder {
		m, ok := present[k]
		if !ok {
			continue
		}
		if k == markLink {
			href := attrString(m.Attrs, "href")
			b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
		} else {
			b.WriteString("<" + markTags[k] + ">")
		}
		opened = append(opened, k)
	}

	b.WriteString(html.EscapeString(n.Text))

	for i := len(opened) - 1; i >= 0; i-- {
		b.WriteString("</" + markTags[opened[i]] + ">")
	}
}

func writeAlign(b *strings.Builder, n *Node) {
	align := attrString(n.Attrs, "textAlign")
	if align == "" || !textAligns[align] {
		return
	}
	b.WriteString(` style="text-align: ` + align + `"`)
}

func headingLevel(n *Node) int {
	level, ok := attrInt(n.Attrs, "level")
	if !ok {
		return 1
	}
	if level < 1 {
		return 1
	}
	if level > 3 {
		return 3
	}
	return level
}
