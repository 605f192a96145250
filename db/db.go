package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

// ListingSchema creates the table the dataset loader reads from.
const ListingSchema = `CREATE TABLE IF NOT EXISTS Listing (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	company TEXT NOT NULL,
	year INTEGER NOT NULL,
	kms_driven INTEGER NOT NULL,
	fuel_type TEXT NOT NULL,
	price REAL
)`

// Open opens the SQLite database at databaseURL and checks the connection.
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("[db] Database opened: %s", databaseURL)
	return conn, nil
}

// EnsureSchema creates the Listing table when it does not exist yet.
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, ListingSchema); err != nil {
		return fmt.Errorf("failed to create Listing table: %w", err)
	}
	return nil
}
