package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	i := GetInstance()

	assert.Equal(t, "Note not found", i.Translate("note_not_found", LangEnUS))
	assert.Equal(t, "笔记不存在", i.Translate("note_not_found", LangZhCN))
	// unsupported language falls back to the default
	assert.Equal(t, "Note not found", i.Translate("note_not_found", "fr-FR"))
	// unknown keys come back unchanged
	assert.Equal(t, "no_such_key", i.Translate("no_such_key", LangEnUS))
}

func TestNegotiate(t *testing.T) {
	i := GetInstance()

	tests := []struct {
		header string
		want   string
	}{
		{"", LangEnUS},
		{"zh-CN,zh;q=0.9,en;q=0.8", LangZhCN},
		{"zh", LangZhCN},
		{"fr-FR, en-GB;q=0.7", LangEnUS},
		{"de-DE", LangEnUS},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, i.Negotiate(tt.header))
		})
	}
}
