package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownSlug(t *testing.T) {
	r := New()

	org, err := r.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "OpenAI", org.Name)
	assert.Equal(t, "dsar@openai.com", org.Email)
	assert.Contains(t, org.EvidenceFields, "chatLinks")
}

func TestGet_UnknownSlug(t *testing.T) {
	r := New()

	_, err := r.Get("totallyfake")
	assert.Error(t, err)
}

func TestGetMany(t *testing.T) {
	tests := []struct {
		name        string
		slugs       []string
		wantMatched []string
		wantMissing []string
	}{
		{
			name:        "all known",
			slugs:       []string{"openai", "anthropic"},
			wantMatched: []string{"openai", "anthropic"},
		},
		{
			name:        "one unknown aborts nothing here but is reported",
			slugs:       []string{"openai", "skynet"},
			wantMatched: []string{"openai"},
			wantMissing: []string{"skynet"},
		},
		{
			name:        "all unknown",
			slugs:       []string{"skynet", "hal9000"},
			wantMissing: []string{"hal9000", "skynet"},
		},
		{
			name:        "duplicates collapse",
			slugs:       []string{"openai", "openai"},
			wantMatched: []string{"openai"},
		},
		{
			name:  "empty input",
			slugs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			matched, missing := r.GetMany(tt.slugs)

			var matchedSlugs []string
			for _, org := range matched {
				matchedSlugs = append(matchedSlugs, org.Slug)
			}
			assert.Equal(t, tt.wantMatched, matchedSlugs)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestAll_PreservesSeedOrderAndCount(t *testing.T) {
	r := New()

	orgs := r.All()
	require.NotEmpty(t, orgs)
	assert.Equal(t, len(r.Slugs()), len(orgs))
	assert.Equal(t, "openai", orgs[0].Slug)

	// Every entry must have the fields letters depend on.
	for _, org := range orgs {
		assert.NotEmpty(t, org.Slug)
		assert.NotEmpty(t, org.Label)
		assert.NotEmpty(t, org.Email)
	}
}
