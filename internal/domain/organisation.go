package domain

import "github.com/google/uuid"

// Organisation is a target for data-protection requests. The registry holds
// the canonical static list; rows in Postgres mirror it so threads can
// reference organisations by id.
type Organisation struct {
	ID    uuid.UUID `json:"-"`
	Slug  string    `json:"slug"` // Unique key, e.g. "openai"
	Name  string    `json:"name"`
	Label string    `json:"label"` // Wizard display label, e.g. "OpenAI (ChatGPT)"
	Email string    `json:"email"` // Registered privacy/DSAR contact address

	// EvidenceFields declares which evidence inputs the wizard shows for
	// this organisation. Nil when the organisation accepts no evidence.
	EvidenceFields map[string]EvidenceField `json:"evidenceFields,omitempty"`
}

// EvidenceField describes one evidence input the wizard renders for an
// organisation (e.g. "ChatGPT Chat Links").
type EvidenceField struct {
	Name        string `json:"label"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}
