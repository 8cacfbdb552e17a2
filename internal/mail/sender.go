package mail

import "context"

// Sender transmits one built message on behalf of one account's sender
// identity. Implementations open a fresh relay session per call; there is
// no retry and no connection reuse across requests.
type Sender interface {
	// Send authenticates against the relay with the given sender identity
	// and transmits the message. Any protocol-level rejection is returned
	// as an error carrying the underlying detail.
	Send(ctx context.Context, senderEmail, senderPassword string, msg *Message) error
}
