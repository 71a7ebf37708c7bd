package store

import (
	"context"
	"fmt"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/join"
	"github.com/roach88/finrel/internal/queryir"
	"github.com/roach88/finrel/internal/querysql"
)

// Join loads fs and evaluates their limit in SQL. Tuples come back in
// lexicographic order, matching join.Limit.
func (s *Store) Join(ctx context.Context, fs []finset.Function) ([]join.Tuple, error) {
	if err := join.CheckDiagram(fs); err != nil {
		return nil, err
	}
	tables := make([]string, len(fs))
	for i, f := range fs {
		rel, err := s.LoadFunction(ctx, fmt.Sprintf("f%d", i+1), f)
		if err != nil {
			return nil, err
		}
		tables[i] = rel.Table
	}

	query, params, err := querysql.Compile(queryir.LimitQuery(tables))
	if err != nil {
		return nil, fmt.Errorf("compile limit query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("run limit query: %w", err)
	}
	defer rows.Close()

	tuples := []join.Tuple{}
	dest := make([]any, len(fs))
	for rows.Next() {
		t := make(join.Tuple, len(fs))
		for i := range t {
			dest[i] = &t[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan tuple: %w", err)
		}
		tuples = append(tuples, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tuples: %w", err)
	}
	return tuples, nil
}
