package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/strataworks/strata/pkg/types"
)

// Search returns entities whose id, title, or description contains the
// query, case-insensitively. With no layers given, every layer is
// searched. Results are ordered by layer rank then id, so the same
// input against the same state always yields the same order.
func (s *Store) Search(ctx context.Context, query string, layers ...string) ([]types.Entity, error) {
	if len(layers) == 0 {
		layers = types.Layers
	}
	for _, layer := range layers {
		if !types.ValidLayer(layer) {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownLayer, layer)
		}
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	results := []types.Entity{}
	for _, layer := range layers {
		table := mustTableName(layer)
		// LOWER + LIKE keeps matching case-insensitive on both backends;
		// ESCAPE makes %, _ in the query literal.
		q := fmt.Sprintf(`SELECT %s FROM %s
WHERE LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR CAST(id AS TEXT) LIKE ? ESCAPE '\'
ORDER BY id`, selectColumns(layer), table)
		matches, err := s.queryEntities(ctx, layer, q, pattern, pattern, pattern)
		if err != nil {
			return nil, err
		}
		results = append(results, matches...)
	}
	return results, nil
}

// escapeLike backslash-escapes LIKE metacharacters so the query matches
// as a literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}
