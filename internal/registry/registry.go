// Package registry holds the static list of organisations that can receive
// data-protection requests.
//
// The registry is the source of truth for organisation contact details and
// evidence-field schemas at request time. The same entries are seeded into
// Postgres by migration so threads can reference organisation rows; the
// database copy is read-only reference data after seeding.
package registry

import (
	"sort"

	"github.com/arkology/forgetme/internal/domain"
)

// seed is the canonical organisation list. Slugs are stable identifiers and
// must never be reused for a different organisation.
var seed = []domain.Organisation{
	{
		Slug:  "openai",
		Name:  "OpenAI",
		Label: "OpenAI (ChatGPT)",
		Email: "dsar@openai.com",
		EvidenceFields: map[string]domain.EvidenceField{
			"chatLinks": {
				Name:        "ChatGPT Chat Links",
				Placeholder: "https://chat.openai.com/...",
				Required:    false,
			},
		},
	},
	{
		Slug:  "anthropic",
		Name:  "Anthropic",
		Label: "Anthropic (Claude)",
		Email: "privacy@anthropic.com",
		EvidenceFields: map[string]domain.EvidenceField{
			"chatLinks": {
				Name:        "Claude Chat Links",
				Placeholder: "https://claude.ai/...",
				Required:    false,
			},
		},
	},
	{
		Slug:  "google",
		Name:  "Google",
		Label: "Google (Gemini)",
		Email: "apps-help@google.com",
		EvidenceFields: map[string]domain.EvidenceField{
			"chatLinks": {
				Name:        "Gemini Chat Links",
				Placeholder: "https://gemini.google.com/...",
				Required:    false,
			},
		},
	},
	{
		Slug:  "x",
		Name:  "X",
		Label: "X (Grok)",
		Email: "support@x.ai",
		EvidenceFields: map[string]domain.EvidenceField{
			"chatLinks": {
				Name:        "Grok Chat Links",
				Placeholder: "https://grok.com/...",
				Required:    false,
			},
		},
	},
	{
		Slug:  "perplexity",
		Name:  "Perplexity",
		Label: "Perplexity",
		Email: "support@perplexity.ai",
		EvidenceFields: map[string]domain.EvidenceField{
			"chatLinks": {
				Name:        "Perplexity Chat Links",
				Placeholder: "https://www.perplexity.ai/...",
				Required:    false,
			},
		},
	},
	{
		Slug:  "mistral",
		Name:  "Mistral",
		Label: "Mistral (le Chat)",
		Email: "privacy@mistral.ai",
		EvidenceFields: map[string]domain.EvidenceField{
			"chatLinks": {
				Name:        "Mistral / le Chat Chat Links",
				Placeholder: "https://chat.mistral.ai/...",
				Required:    false,
			},
		},
	},
}

// Registry provides slug-keyed lookups over the static organisation list.
type Registry struct {
	bySlug map[string]domain.Organisation
	order  []string
}

// New builds a Registry from the canonical seed list.
func New() *Registry {
	r := &Registry{
		bySlug: make(map[string]domain.Organisation, len(seed)),
		order:  make([]string, 0, len(seed)),
	}
	for _, org := range seed {
		r.bySlug[org.Slug] = org
		r.order = append(r.order, org.Slug)
	}
	return r
}

// Get returns the organisation for a slug.
// Returns domain.ENOTFOUND if the slug is not registered.
func (r *Registry) Get(slug string) (domain.Organisation, error) {
	org, ok := r.bySlug[slug]
	if !ok {
		return domain.Organisation{}, domain.NotFound("registry.Get", "organisation", slug)
	}
	return org, nil
}

// GetMany resolves a list of slugs. It returns the matched organisations in
// request order together with the slugs that had no match. Callers must
// treat a non-empty missing list as an error: a submission naming an
// unregistered organisation aborts rather than silently dropping it.
func (r *Registry) GetMany(slugs []string) (matched []domain.Organisation, missing []string) {
	dedup := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if dedup[slug] {
			continue
		}
		dedup[slug] = true

		org, ok := r.bySlug[slug]
		if !ok {
			missing = append(missing, slug)
			continue
		}
		matched = append(matched, org)
	}
	sort.Strings(missing)
	return matched, missing
}

// All returns every registered organisation in seed order.
func (r *Registry) All() []domain.Organisation {
	orgs := make([]domain.Organisation, 0, len(r.order))
	for _, slug := range r.order {
		orgs = append(orgs, r.bySlug[slug])
	}
	return orgs
}

// Slugs returns the registered slugs in seed order.
func (r *Registry) Slugs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
