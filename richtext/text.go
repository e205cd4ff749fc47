package richtext

import (
	"strings"
	"unicode"
)

// DefaultWordsPerMinute is the reading speed assumed when none is given.
const DefaultWordsPerMinute = 200

// DefaultExcerptLength is the excerpt cap assumed when none is given.
const DefaultExcerptLength = 160

// Ellipsis terminates truncated excerpts.
const Ellipsis = "…"

// PlainText extracts all text payloads, joined by single spaces, with
// whitespace runs collapsed and the result trimmed. Marks and block structure
// are ignored.
func PlainText(root *Node) string {
	if root == nil {
		return ""
	}
	var parts []string
	collectText(root, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(n *Node, parts *[]string) {
	if n == nil {
		return
	}
	if n.Kind() == KindText {
		if n.Text != "" {
			*parts = append(*parts, n.Text)
		}
		return
	}
	for _, child := range n.Content {
		collectText(child, parts)
	}
}

// ReadingTime estimates whole minutes to read the document. Non-positive
// wordsPerMinute falls back to DefaultWordsPerMinute. A document with no words
// reads in 0 minutes; anything with at least one word takes at least 1.
func ReadingTime(root *Node, wordsPerMinute int) int {
	words := len(strings.Fields(PlainText(root)))
	if words == 0 {
		return 0
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Excerpt returns the plain text capped at maxLen runes. Oversized text is cut
// at maxLen, backed up to the last whitespace boundary past 80% of maxLen when
// one exists, and terminated with an ellipsis. Non-positive maxLen falls back
// to DefaultExcerptLength.
func Excerpt(root *Node, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultExcerptLength
	}
	text := PlainText(root)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	cut := runes[:maxLen]
	lastSpace := -1
	for i, r := range cut {
		if unicode.IsSpace(r) {
			lastSpace = i
		}
	}
	if lastSpace > maxLen*4/5 {
		return string(cut[:lastSpace]) + Ellipsis
	}
	return string(cut) + Ellipsis
}
