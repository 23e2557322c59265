package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements sparsecontent.Store using PostgreSQL. Nodes live in
// a single table keyed by path with the property map stored as jsonb; see
// schema.sql.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL node store
func New(db DBTX) sparsecontent.Store {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL node store with a connection pool
func NewWithPool(pool *pgxpool.Pool) sparsecontent.Store {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("node already exists")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) GetNode(ctx context.Context, path string) (*sparsecontent.Node, error) {
	query := `SELECT properties FROM node WHERE path = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, path).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sparsecontent.ErrContentNotFound
		}
		return nil, r.handlePostgresError("get node", err)
	}

	props := make(map[string]sparsecontent.StorableValue)
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("decode node properties for %s: %w", path, err)
	}

	return sparsecontent.NewNodeWithProperties(path, props), nil
}

func (r *Repository) SaveNode(ctx context.Context, node *sparsecontent.Node) error {
	raw, err := json.Marshal(node.Properties())
	if err != nil {
		return fmt.Errorf("encode node properties for %s: %w", node.Path(), err)
	}

	query := `
		INSERT INTO node (path, properties, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (path) DO UPDATE
		SET properties = EXCLUDED.properties, updated_at = NOW()`

	if _, err := r.db.Exec(ctx, query, node.Path(), raw); err != nil {
		return r.handlePostgresError("save node", err)
	}
	return nil
}

func (r *Repository) DeleteNode(ctx context.Context, path string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM node WHERE path = $1`, path)
	if err != nil {
		return r.handlePostgresError("delete node", err)
	}
	if tag.RowsAffected() == 0 {
		return sparsecontent.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListNodes(ctx context.Context, parentPath string) ([]*sparsecontent.Node, error) {
	prefix := strings.TrimSuffix(parentPath, "/") + "/"

	// direct children only: no further slash after the parent prefix
	query := `
		SELECT path, properties FROM node
		WHERE path LIKE $1 || '%'
		  AND strpos(substr(path, length($1) + 1), '/') = 0
		ORDER BY path`

	rows, err := r.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, r.handlePostgresError("list nodes", err)
	}
	defer rows.Close()

	var result []*sparsecontent.Node
	for rows.Next() {
		var (
			path string
			raw  []byte
		)
		if err := rows.Scan(&path, &raw); err != nil {
			return nil, r.handlePostgresError("list nodes", err)
		}
		props := make(map[string]sparsecontent.StorableValue)
		if err := json.Unmarshal(raw, &props); err != nil {
			return nil, fmt.Errorf("decode node properties for %s: %w", path, err)
		}
		result = append(result, sparsecontent.NewNodeWithProperties(path, props))
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list nodes", err)
	}

	return result, nil
}
