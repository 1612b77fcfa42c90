package repository

import (
	"context"

	"github.com/lib/pq"
)

const getOrganisationsBySlugs = `
SELECT id, slug, name, label, email
FROM organisations
WHERE slug = ANY($1)
ORDER BY slug
`

// GetOrganisationsBySlugs returns the organisation rows matching the given
// slugs. Missing slugs simply produce no row; callers compare counts to
// detect them.
func (q *Queries) GetOrganisationsBySlugs(ctx context.Context, slugs []string) ([]Organisation, error) {
	rows, err := q.db.QueryContext(ctx, getOrganisationsBySlugs, pq.Array(slugs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []Organisation
	for rows.Next() {
		var o Organisation
		if err := rows.Scan(&o.ID, &o.Slug, &o.Name, &o.Label, &o.Email); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}
