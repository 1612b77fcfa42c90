// Package letter composes data-protection request letters.
//
// Generation is pure: the same form values, organisation, and request
// selection always yield byte-identical output, and nothing here performs
// I/O. The narrative wording is fixed; only the enumerated requests, the
// optional evidence section, and the personal-details block vary.
package letter

import (
	"fmt"
	"strings"

	"github.com/arkology/forgetme/internal/domain"
)

// Generate produces the letter for one organisation.
//
// The body is assembled as:
//   - salutation addressing the organisation by display label
//   - preamble
//   - numbered request descriptions; a Right to Be Hidden request
//     additionally carries the user's prompts and this organisation's
//     evidence (chat links, notes) when present
//   - authorization statement
//   - personal-details block
//   - closing and signature
//
// An organisation with no matching evidence gets no evidence section at
// all; empty placeholders are never emitted.
func Generate(values domain.FormValues, org domain.Organisation, requests []domain.RequestType) domain.Letter {
	var b strings.Builder

	fmt.Fprintf(&b, "Dear %s,\n\n", org.Label)
	b.WriteString("I am writing to request that you adhere to the following requests, in accordance with my data protection rights:\n\n")

	for i, req := range requests {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s: %s", i+1, req.Name, req.Description)
		if req.Label == domain.RequestRTBH {
			writeHiddenRequestDetails(&b, values, org)
		}
	}

	b.WriteString("\n\nI confirm that I am the individual whose data this request concerns and I authorize Please Forget Me to submit this request on my behalf.\n\n")

	b.WriteString("Personal Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", values.FullName())
	fmt.Fprintf(&b, "Email: %s\n", values.Email)
	fmt.Fprintf(&b, "Country: %s\n", valueOrFallback(values.Country, "Not provided"))
	fmt.Fprintf(&b, "Date of Birth: %s\n\n", values.BirthDate)

	b.WriteString("I look forward to receiving confirmation of this request, and a follow up that you have complied with my request within a reasonable time.\n\n")

	b.WriteString("Kindly,\n")
	b.WriteString(values.FullName())
	if values.SignatureURL != "" {
		fmt.Fprintf(&b, "\n\nSignature: %s", values.SignatureURL)
	}

	return domain.Letter{
		To:      org.Email,
		Subject: fmt.Sprintf("Data Protection Request (%s)", values.FullName()),
		Body:    b.String(),
	}
}

// GenerateAll produces one letter per organisation, in organisation order.
// Zero organisations yields an empty slice.
func GenerateAll(values domain.FormValues, orgs []domain.Organisation, requests []domain.RequestType) []domain.Letter {
	letters := make([]domain.Letter, 0, len(orgs))
	for _, org := range orgs {
		letters = append(letters, Generate(values, org, requests))
	}
	return letters
}

// writeHiddenRequestDetails appends the prompts and per-organisation
// evidence that elaborate a Right to Be Hidden request. Sections with no
// content are omitted entirely.
func writeHiddenRequestDetails(b *strings.Builder, values domain.FormValues, org domain.Organisation) {
	if len(values.Prompts) > 0 {
		fmt.Fprintf(b, "\n\nPrompts: %s", strings.Join(values.Prompts, ", "))
	}

	evidence, ok := values.Evidence[org.Slug]
	if !ok || evidence.IsEmpty() {
		return
	}

	b.WriteString("\n\nEvidence:")
	if len(evidence.ChatLinks) > 0 {
		fmt.Fprintf(b, "\nChat links: %s", strings.Join(evidence.ChatLinks, ", "))
	}
	if evidence.AdditionalNotes != "" {
		fmt.Fprintf(b, "\nAdditional notes: %s", evidence.AdditionalNotes)
	}
}

func valueOrFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
