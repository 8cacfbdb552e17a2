package mail

import (
	"strings"

	"github.com/google/uuid"

	"github.com/potatomail/potatomail/internal/model"
)

// htmlPreamble is the plain-text fallback shown by clients that do not
// render the HTML part.
const htmlPreamble = "Please turn on HTML to view this message"

// Part is one body part of a built message.
type Part struct {
	ContentType string
	Body        string
}

// Message is a transmittable email: verbatim headers plus an ordered
// list of alternative body parts.
type Message struct {
	From    string
	To      string
	Subject string
	Parts   []Part
}

// Build constructs a message for the requested content kind.
//
// The primary part carries the literal text for a plain-text kind, or a
// plain-text fallback when the kind renders as HTML. A part typed with
// the requested kind is always attached afterwards, even when it
// duplicates the primary part. An explicit HTML alternative, when
// supplied, is attached last.
func Build(from, to, subject, body, htmlBody string, kind model.EmailType) *Message {
	m := &Message{
		From:    from,
		To:      to,
		Subject: subject,
	}

	if kind.IsHTML() {
		m.Parts = append(m.Parts, Part{ContentType: "text/plain", Body: htmlPreamble})
	} else {
		m.Parts = append(m.Parts, Part{ContentType: "text/plain", Body: body})
	}

	// The requested-kind alternative is unconditional.
	m.Parts = append(m.Parts, Part{ContentType: "text/" + kind.Subtype(), Body: body})

	if htmlBody != "" {
		m.Parts = append(m.Parts, Part{ContentType: "text/html", Body: htmlBody})
	}

	return m
}

// Render serializes the message to wire form with CRLF line endings.
func (m *Message) Render() []byte {
	lines := []string{
		"From: " + headerValue(m.From),
		"To: " + headerValue(m.To),
		"Subject: " + headerValue(m.Subject),
		"MIME-Version: 1.0",
	}

	if len(m.Parts) == 1 {
		lines = append(lines,
			"Content-Type: "+m.Parts[0].ContentType+"; charset=UTF-8",
			"",
			m.Parts[0].Body,
		)
		return []byte(strings.Join(lines, "\r\n"))
	}

	boundary := m.newBoundary()
	lines = append(lines,
		"Content-Type: multipart/alternative; boundary="+boundary,
		"",
	)
	for _, p := range m.Parts {
		lines = append(lines,
			"--"+boundary,
			"Content-Type: "+p.ContentType+"; charset=UTF-8",
			"Content-Transfer-Encoding: 7bit",
			"",
			p.Body,
			"",
		)
	}
	lines = append(lines, "--"+boundary+"--")

	return []byte(strings.Join(lines, "\r\n"))
}

// headerValue strips CR and LF so a header value can never terminate
// the header block or continue as a header of its own.
func headerValue(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "")
}

// newBoundary picks a per-message boundary absent from every part body,
// so body text cannot open or close parts of its own.
func (m *Message) newBoundary() string {
	for {
		b := "pm_" + strings.ReplaceAll(uuid.New().String(), "-", "")
		clash := false
		for _, p := range m.Parts {
			if strings.Contains(p.Body, b) {
				clash = true
				break
			}
		}
		if !clash {
			return b
		}
	}
}
