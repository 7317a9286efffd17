package db

import (
	"context"
	"errors"
	"testing"

	"github.com/freshfind/storefront/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEntry struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:dbclient?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testEntry{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM test_entries")
	})
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromConn(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testEntry{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testEntry{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := NewFromConn(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestDBBindsContext(t *testing.T) {
	conn := newTestDB(t)
	client := NewFromConn(conn)

	if client.DB(nil) != conn {
		t.Fatal("expected nil context to return raw connection")
	}
	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	if got := client.DB(ctx).Statement.Context; got != ctx {
		t.Fatalf("expected context to flow through, got %v", got)
	}
}

func TestDialectorFor(t *testing.T) {
	if d, err := dialectorFor(config.StorageConfig{Driver: config.StorageDriverSQLite, DSN: "file::memory:"}); err != nil || d.Name() != "sqlite" {
		t.Fatalf("expected sqlite dialector, got %v err=%v", d, err)
	}
	if d, err := dialectorFor(config.StorageConfig{Driver: config.StorageDriverPostgres, DSN: "postgres://localhost/ff"}); err != nil || d.Name() != "postgres" {
		t.Fatalf("expected postgres dialector, got %v err=%v", d, err)
	}
	if _, err := dialectorFor(config.StorageConfig{Driver: "mongo", DSN: "x"}); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.StorageConfig{Driver: config.StorageDriverSQLite}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
