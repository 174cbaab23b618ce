package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with padding", "  ```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"no fence", "  {\"a\":1} ", `{"a":1}`},
		{"inline backticks kept", "say `hi`", "say `hi`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "阿青\n哭了", Clean("  阿青\n哭了\x00\x07 "))
	// decomposed e + combining acute becomes a single rune
	assert.Equal(t, "\u00e9", Clean("e\u0301"))
}

func TestSameName(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"阿青", "阿青", true},
		{"阿青", " 阿青 ", true},
		{"叶·英", "叶英", true},
		{"ＬＩ Ｍｉｎｇ", "li ming", true},
		{"阿青", "阿牛", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, SameName(tt.a, tt.b))
		})
	}
}
