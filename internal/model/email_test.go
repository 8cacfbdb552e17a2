package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmailType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    EmailType
		wantErr bool
	}{
		{name: "text", input: "text", want: EmailTypeText},
		{name: "html", input: "html", want: EmailTypeHTML},
		{name: "enriched", input: "enriched", want: EmailTypeEnriched},
		{name: "markdown", input: "markdown", want: EmailTypeMarkdown},
		{name: "xml", input: "xml", want: EmailTypeXML},
		{name: "uppercase", input: "HTML", want: EmailTypeHTML},
		{name: "mixed case", input: "MarkDown", want: EmailTypeMarkdown},
		{name: "unknown", input: "rtf", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace", input: " text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmailType(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidEmailType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmailType_IsHTML(t *testing.T) {
	assert.False(t, EmailTypeText.IsHTML())
	assert.False(t, EmailTypeXML.IsHTML())
	assert.True(t, EmailTypeHTML.IsHTML())
	assert.True(t, EmailTypeEnriched.IsHTML())
	assert.True(t, EmailTypeMarkdown.IsHTML())
}

func TestEmailType_Subtype(t *testing.T) {
	// The alternative part keeps the requested kind, including the
	// deprecated enriched alias.
	assert.Equal(t, "enriched", EmailTypeEnriched.Subtype())
	assert.Equal(t, "markdown", EmailTypeMarkdown.Subtype())
	assert.Equal(t, "text", EmailTypeText.Subtype())
}
