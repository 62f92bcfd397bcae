// Copyright 2026 The Mellium Contributors.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"mellium.im/imclient/jid"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL DEFAULT '',
	contact TEXT NOT NULL,
	resource TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	incoming BOOLEAN NOT NULL DEFAULT FALSE,
	timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_contact ON messages(contact, seq);
`

// SQLite is a Store persisted in an SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at dsn.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", withParam(dsn, "_journal_mode=WAL"))
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: failed to run migrations: %w", err)
	}
	return &SQLite{db: db}, nil
}

// withParam appends a query parameter to a go-sqlite3 DSN.
func withParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Append satisfies Store.
func (s *SQLite) Append(ctx context.Context, msg Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, contact, resource, body, incoming, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Contact.Bare().String(), msg.Resource, msg.Body, msg.Incoming, msg.Time,
	)
	if err != nil {
		return fmt.Errorf("history: failed to store message: %w", err)
	}
	return nil
}

// Messages satisfies Store.
func (s *SQLite) Messages(ctx context.Context, contact jid.JID) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contact, resource, body, incoming, timestamp
		FROM messages WHERE contact = ? ORDER BY seq`,
		contact.Bare().String(),
	)
	if err != nil {
		return nil, fmt.Errorf("history: failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var (
			msg Message
			c   string
		)
		if err := rows.Scan(&msg.ID, &c, &msg.Resource, &msg.Body, &msg.Incoming, &msg.Time); err != nil {
			return nil, fmt.Errorf("history: failed to scan message: %w", err)
		}
		msg.Contact, err = jid.Parse(c)
		if err != nil {
			return nil, fmt.Errorf("history: stored contact %q: %w", c, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// Len satisfies Store.
func (s *SQLite) Len(ctx context.Context, contact jid.JID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE contact = ?`,
		contact.Bare().String(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("history: failed to count messages: %w", err)
	}
	return n, nil
}
