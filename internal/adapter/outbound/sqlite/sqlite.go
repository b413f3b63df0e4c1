// Package sqlite provides pure-Go, modernc.org/sqlite-backed
// implementations of the core's policy.Loader and delegation.Store ports,
// for deployments that want durability without a CGo dependency. Both
// types share one *sql.DB and migrate their own tables on construction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (creating if absent) a SQLite database at dsn and returns the
// shared *sql.DB handle both PolicyStore and DelegationStore migrate
// against. dsn is passed straight to modernc.org/sqlite, e.g.
// "file:authzcore.db?_pragma=busy_timeout(5000)".
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", dsn, err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: pinging %s: %w", dsn, err)
	}
	return db, nil
}
