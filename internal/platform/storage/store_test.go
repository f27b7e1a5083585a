package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"LWA-backend/internal/platform/config"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "libraryWorkData"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: err = %v, want ErrNotFound", err)
	}
	if err := s.Put(ctx, "libraryWorkData", []byte(`{"students":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "libraryWorkData", []byte(`{"students":[{"id":"1"}]}`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, "libraryWorkData")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"students":[{"id":"1"}]}` {
		t.Fatalf("Get = %s", got)
	}
	if _, err := s.Get(ctx, "other"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get other key: err = %v", err)
	}
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryCopiesValues(t *testing.T) {
	s := NewMemory()
	buf := []byte("abc")
	_ = s.Put(context.Background(), "k", buf)
	buf[0] = 'x'
	got, _ := s.Get(context.Background(), "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %s", got)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, s)

	if _, err := os.Stat(filepath.Join(dir, "libraryWorkData.json")); err != nil {
		t.Fatalf("expected blob file: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("expected error for key with path separator")
	}
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpenMemoryAndUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Driver = "memory"
	s, err := Open(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("Open(memory) = %T", s)
	}

	cfg.Storage.Driver = "etcd"
	if _, err := Open(&cfg); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestMySQLIntegration(t *testing.T) {
	if os.Getenv("LWA_MYSQL_TEST") == "" {
		t.Skip("set LWA_MYSQL_TEST=1 with DB_* env to run against a live MySQL")
	}
	cfg, err := config.LoadConfig(config.DefaultPath)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Storage.Driver = "mysql"
	s, err := Open(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()
	if err := s.Put(ctx, "lwa_test", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, "lwa_test"); err != nil || string(got) != "{}" {
		t.Fatalf("Get = %s, %v", got, err)
	}
}

func TestHealthy(t *testing.T) {
	ctx := context.Background()
	if !Healthy(ctx, NewMemory()) {
		t.Fatal("memory store should always be healthy")
	}

	// nothing listens on port 1
	r := NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"})
	defer r.Close()
	if Healthy(ctx, r) {
		t.Fatal("unreachable redis reported healthy")
	}
}
