package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return conn
}

func TestBaseDB_ContextPropagation(t *testing.T) {
	conn := openSQLite(t)
	base := NewBase(conn)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	scoped := base.DB(ctx)
	if scoped == nil || scoped.Statement == nil {
		t.Fatal("expected a statement-bound handle for a non-nil context")
	}
	if scoped.Statement.Context != ctx {
		t.Fatalf("context did not propagate, got %v", scoped.Statement.Context)
	}
}

func TestBaseDB_NilContextReturnsRoot(t *testing.T) {
	conn := openSQLite(t)
	base := NewBase(conn)

	if got := base.DB(nil); got != conn {
		t.Fatal("nil context should return the root connection unchanged")
	}
}
