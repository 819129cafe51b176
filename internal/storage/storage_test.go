package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"qotd/internal/question"
	logx "qotd/pkg/logx"
)

func sample() question.Collection {
	return question.Collection{
		{ID: "3f1c", Text: "Cats or dogs?", Answered: true},
		{ID: "9a2b", Text: "What is your favorite color?"},
		{ID: "0d7e", Text: "Tea or coffee?"},
	}
}

func openTestStore(t *testing.T, driver string) Store {
	t.Helper()
	name := "questions.json"
	if driver == "sqlite" {
		name = "questions.db"
	}
	st, err := Open(Config{Driver: driver, Path: filepath.Join(t.TempDir(), name)}, logx.Nop())
	if err != nil {
		t.Fatalf("Open(%s): %v", driver, err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRoundTrip(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		driver := driver
		t.Run(driver, func(t *testing.T) {
			st := openTestStore(t, driver)
			ctx := context.Background()

			got, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("Load on fresh store: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("fresh store should be empty, got %+v", got)
			}

			want := sample()
			if err := st.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err = st.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}

			// Full replace: a shorter collection must not leave old rows behind.
			if err := st.Save(ctx, want[:1]); err != nil {
				t.Fatalf("Save shorter: %v", err)
			}
			got, err = st.Load(ctx)
			if err != nil {
				t.Fatalf("Load after shrink: %v", err)
			}
			if !reflect.DeepEqual(got, want[:1]) {
				t.Fatalf("expected full replace, got %+v", got)
			}
		})
	}
}

func TestFileStoreEmptyFileIsEmptyCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	st, err := Open(Config{Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	c, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c == nil || len(c) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", c)
	}
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(`[{"id": "x", "text": `), 0o600); err != nil {
		t.Fatal(err)
	}
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := st.Load(context.Background()); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.json")
	st, err := Open(Config{Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	for i := 0; i < 3; i++ {
		if err := st.Save(context.Background(), sample()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStoreEmptySaveWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	st, err := Open(Config{Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if err := st.Save(context.Background(), question.Collection{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]\n" {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestFileStoreSecondOpenIsLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	st, err := Open(Config{Path: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := Open(Config{Path: path}, logx.Nop()); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestFileStoreClosed(t *testing.T) {
	st := openTestStore(t, "file")
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := st.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "redis"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
