package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potatomail/potatomail/internal/model"
)

func TestBuild_TextKind(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "plain body", "", model.EmailTypeText)

	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "text/plain", msg.Parts[0].ContentType)
	assert.Equal(t, "plain body", msg.Parts[0].Body)
	assert.Equal(t, "text/text", msg.Parts[1].ContentType)
	assert.Equal(t, "plain body", msg.Parts[1].Body)
}

func TestBuild_HTMLKind(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "<b>hi</b>", "", model.EmailTypeHTML)

	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "text/plain", msg.Parts[0].ContentType)
	assert.Equal(t, "Please turn on HTML to view this message", msg.Parts[0].Body)
	assert.Equal(t, "text/html", msg.Parts[1].ContentType)
	assert.Equal(t, "<b>hi</b>", msg.Parts[1].Body)
}

func TestBuild_EnrichedBehavesAsHTML(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "<b>hi</b>", "", model.EmailTypeEnriched)

	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "Please turn on HTML to view this message", msg.Parts[0].Body)
	// The alternative part keeps the requested kind even for the
	// deprecated alias.
	assert.Equal(t, "text/enriched", msg.Parts[1].ContentType)
}

func TestBuild_MarkdownBehavesAsHTML(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "# hi", "", model.EmailTypeMarkdown)

	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "Please turn on HTML to view this message", msg.Parts[0].Body)
	assert.Equal(t, "text/markdown", msg.Parts[1].ContentType)
}

func TestBuild_XMLKindKeepsLiteralBody(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "<doc/>", "", model.EmailTypeXML)

	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "<doc/>", msg.Parts[0].Body)
	assert.Equal(t, "text/xml", msg.Parts[1].ContentType)
}

func TestBuild_ExplicitHTMLAlternative(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "plain body", "<p>rich</p>", model.EmailTypeText)

	require.Len(t, msg.Parts, 3)
	assert.Equal(t, "text/plain", msg.Parts[0].ContentType)
	assert.Equal(t, "text/text", msg.Parts[1].ContentType)
	assert.Equal(t, "text/html", msg.Parts[2].ContentType)
	assert.Equal(t, "<p>rich</p>", msg.Parts[2].Body)
}

func TestRender_Headers(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Greetings", "body", "", model.EmailTypeText)
	wire := string(msg.Render())

	assert.Contains(t, wire, "From: sender@example.com\r\n")
	assert.Contains(t, wire, "To: rcpt@example.com\r\n")
	assert.Contains(t, wire, "Subject: Greetings\r\n")
	assert.Contains(t, wire, "MIME-Version: 1.0\r\n")
	assert.Contains(t, wire, "Content-Type: multipart/alternative;")
}

// renderedBoundary pulls the boundary parameter out of the rendered
// Content-Type header.
func renderedBoundary(t *testing.T, wire string) string {
	t.Helper()
	const marker = "Content-Type: multipart/alternative; boundary="
	idx := strings.Index(wire, marker)
	require.GreaterOrEqual(t, idx, 0)
	rest := wire[idx+len(marker):]
	end := strings.Index(rest, "\r\n")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

func TestRender_MultipartBoundaries(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", "body", "<p>rich</p>", model.EmailTypeText)
	wire := string(msg.Render())
	boundary := renderedBoundary(t, wire)

	assert.Equal(t, 3, strings.Count(wire, "--"+boundary+"\r\n"))
	assert.True(t, strings.HasSuffix(wire, "--"+boundary+"--"))
	assert.Contains(t, wire, "Content-Type: text/html; charset=UTF-8")
}

func TestRender_BoundaryIsPerMessage(t *testing.T) {
	a := Build("sender@example.com", "rcpt@example.com", "Hello", "body", "", model.EmailTypeText)
	b := Build("sender@example.com", "rcpt@example.com", "Hello", "body", "", model.EmailTypeText)

	assert.NotEqual(t,
		renderedBoundary(t, string(a.Render())),
		renderedBoundary(t, string(b.Render())),
	)
}

func TestRender_BodyCannotSmuggleParts(t *testing.T) {
	body := "hello\r\n--pm_0123456789abcdef\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n<script>alert(1)</script>"
	msg := Build("sender@example.com", "rcpt@example.com", "Hello", body, "", model.EmailTypeText)
	wire := string(msg.Render())
	boundary := renderedBoundary(t, wire)

	// Two parts on the wire regardless of the boundary-shaped lines the
	// body carries.
	assert.Equal(t, 2, strings.Count(wire, "--"+boundary+"\r\n"))
	for _, p := range msg.Parts {
		assert.NotContains(t, p.Body, boundary)
	}
}

func TestRender_StripsHeaderLineBreaks(t *testing.T) {
	msg := Build("sender@example.com", "rcpt@example.com", "hi\r\nBcc: victim@example.com", "body", "", model.EmailTypeText)
	wire := string(msg.Render())

	assert.NotContains(t, wire, "\r\nBcc:")
	assert.Contains(t, wire, "Subject: hiBcc: victim@example.com\r\n")
}

func TestRender_SinglePart(t *testing.T) {
	msg := &Message{
		From:    "sender@example.com",
		To:      "rcpt@example.com",
		Subject: "Hello",
		Parts:   []Part{{ContentType: "text/plain", Body: "body"}},
	}
	wire := string(msg.Render())

	assert.NotContains(t, wire, "multipart/alternative")
	assert.Contains(t, wire, "Content-Type: text/plain; charset=UTF-8\r\n\r\nbody")
}
