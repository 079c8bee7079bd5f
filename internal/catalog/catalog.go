// Package catalog stores named coatings in SQLite.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/lukaszgryglicki/raycoat/internal/coating"
)

var ErrNotFound = errors.New("coating not found")

// Catalog wraps a SQLite connection holding serialized coatings.
type Catalog struct {
	conn *sqlx.DB
}

// Entry is one stored coating. Body is the JSON dictionary form.
type Entry struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Kind      string `db:"kind"`
	Body      string `db:"body"`
	CreatedAt int64  `db:"created_at"`
}

func (e Entry) Created() time.Time { return time.Unix(e.CreatedAt, 0) }

// Coating decodes the stored body.
func (e Entry) Coating() (coating.Coating, error) {
	c, err := coating.Unmarshal([]byte(e.Body))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", e.Name, err)
	}
	return c, nil
}

// Open opens or creates a catalog at path.
func Open(path string) (*Catalog, error) {
	// modernc applies each _pragma on every new pool connection
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	c := &Catalog{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

func (c *Catalog) Close() error {
	return c.conn.Close()
}

func (c *Catalog) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS coatings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_coatings_kind ON coatings(kind);
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Put stores c under name, replacing any previous coating with that name.
// The row id and creation time survive a replace.
func (c *Catalog) Put(name string, ct coating.Coating) error {
	body, err := coating.Marshal(ct)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tx, err := c.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	err = tx.Get(&id, "SELECT id FROM coatings WHERE name = ?", name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = tx.Exec(
			"INSERT INTO coatings (id, name, kind, body, created_at) VALUES (?, ?, ?, ?, ?)",
			id, name, ct.Kind().String(), string(body), time.Now().Unix(),
		)
	case err == nil:
		_, err = tx.Exec(
			"UPDATE coatings SET kind = ?, body = ? WHERE id = ?",
			ct.Kind().String(), string(body), id,
		)
	}
	if err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	slog.Debug("catalog put", "name", name, "id", id, "kind", ct.Kind().String())
	return tx.Commit()
}

// Entry returns the stored row for name.
func (c *Catalog) Entry(name string) (Entry, error) {
	var e Entry
	err := c.conn.Get(&e, "SELECT id, name, kind, body, created_at FROM coatings WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return e, err
}

// Get returns the coating stored under name.
func (c *Catalog) Get(name string) (coating.Coating, error) {
	e, err := c.Entry(name)
	if err != nil {
		return nil, err
	}
	return e.Coating()
}

// List returns every entry ordered by name.
func (c *Catalog) List() ([]Entry, error) {
	var entries []Entry
	err := c.conn.Select(&entries, "SELECT id, name, kind, body, created_at FROM coatings ORDER BY name")
	return entries, err
}

// Delete removes name. Deleting a missing name reports ErrNotFound.
func (c *Catalog) Delete(name string) error {
	res, err := c.conn.Exec("DELETE FROM coatings WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
