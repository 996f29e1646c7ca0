package local

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()

	cfg := DefaultConfig()
	cfg.SandboxRoot = filepath.Join(t.TempDir(), "sandbox")

	exec, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return exec
}

func TestAllocate_UniqueDirectories(t *testing.T) {
	e := newTestExecutor(t)

	first, err := e.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	second, err := e.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}

	if first.Dir == second.Dir {
		t.Errorf("allocate() returned the same directory twice: %s", first.Dir)
	}
	for _, ws := range []*workspace{first, second} {
		info, err := os.Stat(ws.Dir)
		if err != nil {
			t.Fatalf("stat %s: %v", ws.Dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", ws.Dir)
		}
	}
}

func TestWriteSource_Verbatim(t *testing.T) {
	e := newTestExecutor(t)

	ws, err := e.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}

	// Mixed line endings and a trailing blank line must survive untouched.
	code := "print('a')\r\nprint('b')\n\n"
	profile, _ := lookupProfile("python")

	path, err := ws.writeSource(profile, code)
	if err != nil {
		t.Fatalf("writeSource() error = %v", err)
	}
	if filepath.Base(path) != "snippet.py" {
		t.Errorf("writeSource() path = %s, want snippet.py base", path)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading source file: %v", err)
	}
	if string(got) != code {
		t.Errorf("source file = %q, want %q", got, code)
	}
}

func TestRelease_RemovesDirectoryAndContents(t *testing.T) {
	e := newTestExecutor(t)

	ws, err := e.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	// Simulate artifacts left behind by the run.
	nested := filepath.Join(ws.Dir, "out", "build")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("creating nested dirs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(nested, "a.out"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}

	e.release(ws)

	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("directory still exists after release: %s", ws.Dir)
	}
}

func TestRelease_Idempotent(t *testing.T) {
	e := newTestExecutor(t)

	ws, err := e.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}

	e.release(ws)
	// Releasing an already removed workspace must not panic or recreate it.
	e.release(ws)

	if _, err := os.Stat(ws.Dir); !os.IsNotExist(err) {
		t.Errorf("directory exists after double release: %s", ws.Dir)
	}
}
