package progress_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codeadapt/learn-gateway/internal/progress"
)

func TestFileMedium_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	ctx := context.Background()

	first := progress.NewFileMedium(path)
	if _, found, err := first.Read(ctx, "a"); err != nil || found {
		t.Fatalf("Read() on missing file = %v, %v", found, err)
	}
	if err := first.Write(ctx, "a", "1"); err != nil {
		t.Fatalf("Write(a) error = %v", err)
	}
	if err := first.Write(ctx, "b", "2"); err != nil {
		t.Fatalf("Write(b) error = %v", err)
	}

	second := progress.NewFileMedium(path)
	for key, want := range map[string]string{"a": "1", "b": "2"} {
		got, found, err := second.Read(ctx, key)
		if err != nil || !found || got != want {
			t.Errorf("Read(%s) = %q, %v, %v; want %q", key, got, found, err, want)
		}
	}
}

func TestFileMedium_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := progress.NewFileMedium(path)
	if _, _, err := m.Read(context.Background(), "a"); err == nil {
		t.Error("Read() on corrupt file should fail")
	}
	if err := m.Write(context.Background(), "a", "1"); err == nil {
		t.Error("Write() on corrupt file should fail rather than clobber it")
	}
}
