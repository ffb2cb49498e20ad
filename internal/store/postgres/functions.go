package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"funcplane/internal/store"
)

// SaveFunction appends a function row. The registry is append-only, so
// duplicate titles simply get a higher sequence number.
func (s *Store) SaveFunction(ctx context.Context, fn *store.Function) error {
	query := `
		INSERT INTO functions (title, provider, entrypoint, working_dir, env_vars, arguments, dependencies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	envJSON, err := json.Marshal(fn.EnvVars)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		fn.Title,
		fn.Provider,
		fn.Entrypoint,
		fn.WorkingDir,
		envJSON,
		fn.Arguments,
		fn.Dependencies,
		fn.CreatedAt,
	)
	return err
}

// ListFunctions returns all records in registration order.
func (s *Store) ListFunctions(ctx context.Context) ([]*store.Function, error) {
	query := `
		SELECT title, provider, entrypoint, working_dir, env_vars, arguments, dependencies, created_at
		FROM functions
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fns []*store.Function
	for rows.Next() {
		fn, err := scanFunction(rows)
		if err != nil {
			return nil, err
		}
		fns = append(fns, fn)
	}
	return fns, rows.Err()
}

// GetFunctionByTitle returns the most recently registered record with the
// given title.
func (s *Store) GetFunctionByTitle(ctx context.Context, title string) (*store.Function, error) {
	query := `
		SELECT title, provider, entrypoint, working_dir, env_vars, arguments, dependencies, created_at
		FROM functions
		WHERE title = $1
		ORDER BY seq DESC
		LIMIT 1
	`

	fn, err := scanFunction(s.db.QueryRowContext(ctx, query, title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrFunctionNotFound
	}
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFunction(row rowScanner) (*store.Function, error) {
	var fn store.Function
	var envJSON []byte

	err := row.Scan(
		&fn.Title,
		&fn.Provider,
		&fn.Entrypoint,
		&fn.WorkingDir,
		&envJSON,
		&fn.Arguments,
		&fn.Dependencies,
		&fn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(envJSON) > 0 {
		if err := json.Unmarshal(envJSON, &fn.EnvVars); err != nil {
			return nil, err
		}
	}
	return &fn, nil
}
