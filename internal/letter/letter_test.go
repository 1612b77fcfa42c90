package letter

import (
	"strings"
	"testing"

	"github.com/arkology/forgetme/internal/domain"
	"github.com/arkology/forgetme/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValues() domain.FormValues {
	return domain.FormValues{
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane@example.com",
		Country:       "Netherlands",
		BirthDate:     "1990-04-01",
		Organisations: []string{"openai"},
		Reasons:       []string{"inaccuracy"},
		Authorized:    true,
	}
}

func testOrg(t *testing.T, slug string) domain.Organisation {
	t.Helper()
	org, err := registry.New().Get(slug)
	require.NoError(t, err)
	return org
}

func erasureRequest() []domain.RequestType {
	return []domain.RequestType{domain.RequestCatalog[domain.RequestRTBF]}
}

func TestGenerate_AddressesOrganisationContact(t *testing.T) {
	org := testOrg(t, "openai")

	l := Generate(testValues(), org, erasureRequest())

	assert.Equal(t, "dsar@openai.com", l.To)
	assert.Contains(t, l.Subject, "Jane Doe")
	assert.True(t, strings.HasPrefix(l.Body, "Dear OpenAI (ChatGPT),"))
}

func TestGenerate_BodyContainsRequestAndPersonalDetails(t *testing.T) {
	l := Generate(testValues(), testOrg(t, "openai"), erasureRequest())

	assert.Contains(t, l.Body, "1. Right to Be Forgotten:")
	assert.Contains(t, l.Body, "right to erasure")
	assert.Contains(t, l.Body, "Name: Jane Doe")
	assert.Contains(t, l.Body, "Email: jane@example.com")
	assert.Contains(t, l.Body, "Country: Netherlands")
	assert.Contains(t, l.Body, "Date of Birth: 1990-04-01")
	assert.Contains(t, l.Body, "Kindly,\nJane Doe")
}

func TestGenerate_MissingCountryUsesFallback(t *testing.T) {
	values := testValues()
	values.Country = ""

	l := Generate(values, testOrg(t, "openai"), erasureRequest())

	assert.Contains(t, l.Body, "Country: Not provided")
}

func TestGenerate_Deterministic(t *testing.T) {
	values := testValues()
	org := testOrg(t, "anthropic")
	requests := []domain.RequestType{
		domain.RequestCatalog[domain.RequestRTBF],
		domain.RequestCatalog[domain.RequestRTOOT],
	}

	first := Generate(values, org, requests)
	second := Generate(values, org, requests)

	assert.Equal(t, first, second)
}

func TestGenerate_HiddenRequestIncludesPromptsAndEvidence(t *testing.T) {
	values := testValues()
	values.Prompts = []string{"who is jane doe", "jane doe biography"}
	values.Evidence = map[string]domain.Evidence{
		"openai": {
			ChatLinks:       []string{"https://chat.openai.com/share/abc"},
			AdditionalNotes: "Appears in responses about my employer.",
		},
	}

	l := Generate(values, testOrg(t, "openai"), []domain.RequestType{
		domain.RequestCatalog[domain.RequestRTBH],
	})

	assert.Contains(t, l.Body, "Prompts: who is jane doe, jane doe biography")
	assert.Contains(t, l.Body, "Evidence:")
	assert.Contains(t, l.Body, "Chat links: https://chat.openai.com/share/abc")
	assert.Contains(t, l.Body, "Additional notes: Appears in responses about my employer.")
}

func TestGenerate_HiddenRequestOmitsEvidenceSectionWhenAbsent(t *testing.T) {
	values := testValues()
	values.Prompts = []string{"who is jane doe"}
	// Evidence exists, but for a different organisation.
	values.Evidence = map[string]domain.Evidence{
		"anthropic": {ChatLinks: []string{"https://claude.ai/share/xyz"}},
	}

	l := Generate(values, testOrg(t, "openai"), []domain.RequestType{
		domain.RequestCatalog[domain.RequestRTBH],
	})

	assert.NotContains(t, l.Body, "Evidence:")
	assert.NotContains(t, l.Body, "Chat links:")
}

func TestGenerate_GenericDescriptionOnlyWhenNoTypeSpecificData(t *testing.T) {
	values := testValues()
	// RTBH selected, but no prompts or evidence supplied.
	values.Prompts = nil
	values.Evidence = nil

	l := Generate(values, testOrg(t, "openai"), []domain.RequestType{
		domain.RequestCatalog[domain.RequestRTBH],
	})

	assert.Contains(t, l.Body, "1. Right to Be Hidden:")
	assert.NotContains(t, l.Body, "Prompts:")
	assert.NotContains(t, l.Body, "Evidence:")
}

func TestGenerate_SignatureURLAppended(t *testing.T) {
	values := testValues()
	values.SignatureURL = "https://files.pleaseforget.me/signatures/abc.png"

	l := Generate(values, testOrg(t, "openai"), erasureRequest())

	assert.Contains(t, l.Body, "Signature: https://files.pleaseforget.me/signatures/abc.png")
}

func TestGenerateAll(t *testing.T) {
	reg := registry.New()
	orgs, missing := reg.GetMany([]string{"openai", "anthropic", "mistral"})
	require.Empty(t, missing)

	letters := GenerateAll(testValues(), orgs, erasureRequest())

	require.Len(t, letters, 3)
	assert.Equal(t, "dsar@openai.com", letters[0].To)
	assert.Equal(t, "privacy@anthropic.com", letters[1].To)
	assert.Equal(t, "privacy@mistral.ai", letters[2].To)
}

func TestGenerateAll_NoOrganisations(t *testing.T) {
	letters := GenerateAll(testValues(), nil, erasureRequest())
	assert.Empty(t, letters)
}
