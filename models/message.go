package models

// MediaRef points at an externally stored attachment. Ref is opaque; the
// storage collaborator owns resolution.
type MediaRef struct {
	Ref      string `json:"ref"`
	MimeType string `json:"mime_type"`
}

// IncomingMessage is one inbound message from the chat channel.
type IncomingMessage struct {
	SubjectID string    `json:"subject_id"`
	Text      string    `json:"text"`
	Media     *MediaRef `json:"media,omitempty"`
}
