// Package domain contains core business types and interfaces.
//
// This file defines the request catalog (the kinds of data-protection
// requests a user can make) and the consolidated form values collected by
// the wizard.
package domain

// RequestLabel identifies a kind of data-protection request.
type RequestLabel string

const (
	RequestRTBF  RequestLabel = "rtbf"  // Right to Be Forgotten (erasure)
	RequestRTOOT RequestLabel = "rtoot" // Right to Opt Out of Training
	RequestRTBH  RequestLabel = "rtbh"  // Right to Be Hidden (from model outputs)
)

// RequestType describes one kind of request as it appears in letters and in
// the wizard. Description is the exact sentence interpolated into letters.
type RequestType struct {
	Label       RequestLabel `json:"label"`
	Type        string       `json:"type"` // Short code, e.g. "RTBF"
	Name        string       `json:"name"`
	Description string       `json:"description"`
}

// RequestCatalog is the fixed set of supported request types, keyed by label.
var RequestCatalog = map[RequestLabel]RequestType{
	RequestRTBF: {
		Label:       RequestRTBF,
		Type:        "RTBF",
		Name:        "Right to Be Forgotten",
		Description: "I would like to exercise my right to erasure and request that you remove all of my personal information from your records.",
	},
	RequestRTOOT: {
		Label:       RequestRTOOT,
		Type:        "RTOOT",
		Name:        "Right to Opt Out of Training",
		Description: "I would like to opt out of training of AI or machine learning models on my data.",
	},
	RequestRTBH: {
		Label:       RequestRTBH,
		Type:        "RTBH",
		Name:        "Right to Be Hidden",
		Description: "I would like to request that you hide my identity and personal information from model outputs.",
	},
}

// ResolveRequests maps request labels to catalog entries, preserving order.
// Unknown labels are reported back to the caller rather than dropped.
func ResolveRequests(labels []RequestLabel) (resolved []RequestType, unknown []RequestLabel) {
	for _, label := range labels {
		rt, ok := RequestCatalog[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		resolved = append(resolved, rt)
	}
	return resolved, unknown
}

// Reason is one of the selectable grounds for an erasure request.
type Reason struct {
	ID      string `json:"id"`
	Name    string `json:"label"`
	Tooltip string `json:"tooltip"`
}

// ErasureReasons is the fixed catalog of RTBF reasons shown in the wizard.
var ErasureReasons = []Reason{
	{
		ID:      "personal_impact",
		Name:    "Personal or Professional Impact",
		Tooltip: "The data is no longer necessary or it significantly impacts your personal or professional life. This includes situations where outdated or irrelevant data affects your reputation or opportunities.",
	},
	{
		ID:      "unlawful_processing",
		Name:    "Data Processing Was Unlawful",
		Tooltip: "Your personal data has been processed without legal basis or consent. This includes data collected without proper authorization or used beyond its intended purpose.",
	},
	{
		ID:      "inaccuracy",
		Name:    "Inaccuracy or Misrepresentation",
		Tooltip: "Your personal data is inaccurate or misrepresents you. This ensures that AI systems don't perpetuate or learn from incorrect information about you.",
	},
}

// Evidence holds the optional, per-organisation supporting material a user
// attaches to a Right to Be Hidden request.
type Evidence struct {
	ChatLinks       []string `json:"chatLinks,omitempty"`
	AdditionalNotes string   `json:"additionalNotes,omitempty"`
}

// IsEmpty reports whether the evidence carries no usable content.
func (e Evidence) IsEmpty() bool {
	return len(e.ChatLinks) == 0 && e.AdditionalNotes == ""
}

// FormValues is the consolidated payload collected by the wizard.
// Evidence is keyed by organisation slug.
type FormValues struct {
	FirstName     string              `json:"firstName"`
	LastName      string              `json:"lastName"`
	Email         string              `json:"email"`
	Country       string              `json:"country,omitempty"`
	BirthDate     string              `json:"birthDate"`
	Organisations []string            `json:"organisations"`
	Reasons       []string            `json:"reasons,omitempty"`
	Prompts       []string            `json:"prompts,omitempty"`
	Evidence      map[string]Evidence `json:"evidence,omitempty"`
	Authorized    bool                `json:"authorized"`
	SignatureURL  string              `json:"signatureUrl,omitempty"`
}

// FullName returns the requester's name as used in subjects and signatures.
func (v FormValues) FullName() string {
	return v.FirstName + " " + v.LastName
}

// Validate checks the fields every submission must carry. Field-level
// errors accumulate so the wizard can highlight each offending input.
func (v FormValues) Validate(op string) error {
	var err error
	if v.FirstName == "" {
		err = AddFieldError(err, "firstName", "First name is required")
	}
	if v.LastName == "" {
		err = AddFieldError(err, "lastName", "Last name is required")
	}
	if v.Email == "" {
		err = AddFieldError(err, "email", "Email is required")
	}
	if v.BirthDate == "" {
		err = AddFieldError(err, "birthDate", "Date of birth is required")
	}
	if len(v.Organisations) == 0 {
		err = AddFieldError(err, "organisations", "Select at least one organisation")
	}
	if !v.Authorized {
		err = AddFieldError(err, "authorized", "Authorization is required to submit on your behalf")
	}
	if ve, ok := err.(*ValidationError); ok {
		ve.Op = op
		return ve
	}
	return nil
}
