package migrate

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestUpCreatesSnapshotTable(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := Up(context.Background(), conn); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	// Re-running must be a no-op.
	if err := Up(context.Background(), conn); err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	var name string
	row := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cart_snapshots'`)
	if err := row.Scan(&name); err != nil {
		t.Fatalf("cart_snapshots table missing: %v", err)
	}
}

func TestUpRequiresDB(t *testing.T) {
	if err := Up(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
