package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteBackend keeps every collection in one embedded database,
// one table per collection with records stored as JSON documents.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and prepares
// the bookstore collections.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	b := &SQLiteBackend{db: db}
	for _, name := range []string{CollectionBooks, CollectionOrders, CollectionDeliveries} {
		if err := b.migrate(name); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *SQLiteBackend) migrate(name string) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		id TEXT PRIMARY KEY,
		doc TEXT NOT NULL
	)`, name)
	if _, err := b.db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	return nil
}

func (b *SQLiteBackend) Collection(name string) Collection {
	return &SQLiteCollection{db: b.db, table: name}
}

func (b *SQLiteBackend) Close() error { return b.db.Close() }

// SQLiteCollection is a Collection backed by one table of JSON docs.
type SQLiteCollection struct {
	db    *sql.DB
	table string
}

// Load reads every document in the table and decodes the set into v.
func (c *SQLiteCollection) Load(ctx context.Context, v any) error {
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`SELECT doc FROM %q ORDER BY rowid`, c.table))
	if err != nil {
		return fmt.Errorf("load %s: %w", c.table, err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("load %s: %w", c.table, err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load %s: %w", c.table, err)
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.table, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("load %s: %w", c.table, err)
	}
	return nil
}

// Save replaces the table contents with v in a single transaction.
// Records are keyed by their "id" field.
func (c *SQLiteCollection) Save(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("save %s: %w", c.table, err)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("save %s: %w", c.table, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s: %w", c.table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, c.table)); err != nil {
		return fmt.Errorf("save %s: %w", c.table, err)
	}
	insert := fmt.Sprintf(`INSERT INTO %q (id, doc) VALUES (?, ?)`, c.table)
	for _, doc := range docs {
		var key struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(doc, &key); err != nil {
			return fmt.Errorf("save %s: %w", c.table, err)
		}
		if _, err := tx.ExecContext(ctx, insert, key.ID, string(doc)); err != nil {
			return fmt.Errorf("save %s: %w", c.table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s: %w", c.table, err)
	}
	return nil
}
