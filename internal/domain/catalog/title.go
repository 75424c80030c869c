package catalog

import (
	"html"
	"strings"
)

const (
	boldOpen  = "<b>"
	boldClose = "</b>"
)

// TitleSegment is a run of title text rendered either bold or regular
type TitleSegment struct {
	Text string `json:"text"`
	Bold bool   `json:"bold"`
}

// ParseTitle splits a highlighted title into segments. <b> switches bold on,
// </b> switches it off, entities are unescaped and empty runs are dropped.
func ParseTitle(title string) []TitleSegment {
	segments := make([]TitleSegment, 0, 4)
	bold := false
	rest := title

	for len(rest) > 0 {
		open := strings.Index(rest, boldOpen)
		closing := strings.Index(rest, boldClose)

		next, tag := -1, ""
		switch {
		case open >= 0 && (closing < 0 || open < closing):
			next, tag = open, boldOpen
		case closing >= 0:
			next, tag = closing, boldClose
		}

		if next < 0 {
			segments = appendSegment(segments, rest, bold)
			break
		}

		segments = appendSegment(segments, rest[:next], bold)
		bold = tag == boldOpen
		rest = rest[next+len(tag):]
	}

	return segments
}

// PlainTitle returns the title with highlight markup removed
func PlainTitle(title string) string {
	var b strings.Builder
	for _, s := range ParseTitle(title) {
		b.WriteString(s.Text)
	}
	return b.String()
}

func appendSegment(segments []TitleSegment, text string, bold bool) []TitleSegment {
	if text == "" {
		return segments
	}
	text = html.UnescapeString(text)
	// merge with the previous run when the style did not change
	if n := len(segments); n > 0 && segments[n-1].Bold == bold {
		segments[n-1].Text += text
		return segments
	}
	return append(segments, TitleSegment{Text: text, Bold: bold})
}
