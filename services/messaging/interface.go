package messaging

import "context"

// Sender delivers outbound text to the chat-channel collaborator. The core
// only knows opaque addresses: a subject id or the operator channel.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}
