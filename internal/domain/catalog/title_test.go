package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TitleSegment
	}{
		{
			name:     "no markup",
			input:    "스타벅스 e카드",
			expected: []TitleSegment{{Text: "스타벅스 e카드"}},
		},
		{
			name:  "leading bold",
			input: "<b>스타벅스</b> 1만원권",
			expected: []TitleSegment{
				{Text: "스타벅스", Bold: true},
				{Text: " 1만원권"},
			},
		},
		{
			name:  "several bold runs",
			input: "[모바일] <b>메가커피</b> <b>금액권</b> 3만원",
			expected: []TitleSegment{
				{Text: "[모바일] "},
				{Text: "메가커피", Bold: true},
				{Text: " "},
				{Text: "금액권", Bold: true},
				{Text: " 3만원"},
			},
		},
		{
			name:     "entities are unescaped",
			input:    "<b>Vips</b>&amp;co",
			expected: []TitleSegment{{Text: "Vips", Bold: true}, {Text: "&co"}},
		},
		{
			name:     "empty",
			input:    "",
			expected: []TitleSegment{},
		},
		{
			name:     "unclosed tag runs to the end",
			input:    "a<b>b",
			expected: []TitleSegment{{Text: "a"}, {Text: "b", Bold: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTitle(tt.input))
		})
	}
}

func TestPlainTitle(t *testing.T) {
	assert.Equal(t, "맥도날드 디지털상품권 5000원", PlainTitle("<b>맥도날드</b> <b>디지털상품권</b> 5000원"))
}
