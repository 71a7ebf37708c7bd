package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/ir"
)

// Relation is a catalog entry for a loaded function.
type Relation struct {
	ID        string // content hash
	Name      string
	Table     string
	DomSize   int
	CodomSize int
	Seq       int64
}

// FunctionHash returns the content hash identifying f in the catalog.
func FunctionHash(f finset.Function) (string, error) {
	return ir.ContentHash(ir.DomainFunction, ir.IRObject{
		"dom":    ir.IntArray(f.Dom().Elements()),
		"codom":  ir.IntArray(f.Codom().Elements()),
		"values": ir.IntArray(finset.Values(f)),
	})
}

// LoadFunction stores f as a relation and returns its catalog entry. A
// function already in the catalog (same content hash) is not stored again;
// the existing entry is returned with its original name.
func (s *Store) LoadFunction(ctx context.Context, name string, f finset.Function) (Relation, error) {
	id, err := FunctionHash(f)
	if err != nil {
		return Relation{}, fmt.Errorf("load function %s: %w", name, err)
	}
	if rel, err := s.relation(ctx, id); err == nil {
		return rel, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return Relation{}, fmt.Errorf("load function %s: %w", name, err)
	}

	table := "rel_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Relation{}, fmt.Errorf("load function %s: begin: %w", name, err)
	}
	defer tx.Rollback()

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE %s (elem INTEGER PRIMARY KEY, value INTEGER NOT NULL)`, table),
		fmt.Sprintf(`CREATE INDEX idx_%s_value ON %s(value)`, table, table),
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return Relation{}, fmt.Errorf("load function %s: %w", name, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (elem, value) VALUES (?, ?)`, table))
	if err != nil {
		return Relation{}, fmt.Errorf("load function %s: prepare: %w", name, err)
	}
	defer insert.Close()
	for x := range f.Dom().All() {
		if _, err := insert.ExecContext(ctx, x, f.Apply(x)); err != nil {
			return Relation{}, fmt.Errorf("load function %s: insert %d: %w", name, x, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO relations (id, name, table_name, dom_size, codom_size, seq)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM relations))
	`, id, name, table, f.Dom().Len(), f.Codom().Len())
	if err != nil {
		return Relation{}, fmt.Errorf("load function %s: catalog: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return Relation{}, fmt.Errorf("load function %s: commit: %w", name, err)
	}
	return s.relation(ctx, id)
}

func (s *Store) relation(ctx context.Context, id string) (Relation, error) {
	var rel Relation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, table_name, dom_size, codom_size, seq
		FROM relations WHERE id = ?
	`, id).Scan(&rel.ID, &rel.Name, &rel.Table, &rel.DomSize, &rel.CodomSize, &rel.Seq)
	return rel, err
}

// Relations returns the catalog in load order.
// Returns an empty slice (not nil) when the catalog is empty.
func (s *Store) Relations(ctx context.Context) ([]Relation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, table_name, dom_size, codom_size, seq
		FROM relations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	rels := []Relation{}
	for rows.Next() {
		var rel Relation
		if err := rows.Scan(&rel.ID, &rel.Name, &rel.Table, &rel.DomSize, &rel.CodomSize, &rel.Seq); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		rels = append(rels, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relations: %w", err)
	}
	return rels, nil
}
