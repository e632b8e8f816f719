package iconstub

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmitAll(t *testing.T) {
	goldens := map[string][]byte{}
	for _, name := range []string{"icon16.png", "icon48.png", "icon128.png"} {
		b, err := os.ReadFile(filepath.Join("testdata", name+".golden"))
		if err != nil {
			t.Fatal(err)
		}
		goldens[name] = b
	}

	dir := t.TempDir()
	t.Chdir(dir)

	buf := new(bytes.Buffer)
	e, err := New(WithLogger(slog.New(slog.NewTextHandler(buf, nil))))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.EmitAll(context.Background(), DefaultIconSet()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, ent := range entries {
		got = append(got, ent.Name())
	}
	if diff := cmp.Diff([]string{"icon128.png", "icon16.png", "icon48.png"}, got); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	for name, want := range goldens {
		b, err := os.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, b); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
	for _, name := range []string{"icon16.png", "icon48.png", "icon128.png"} {
		if !strings.Contains(buf.String(), `msg="created file" path=`+name) {
			t.Errorf("log does not contain confirmation for %s:\n%s", name, buf.String())
		}
	}
}

func TestEmitOverwrites(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "icon16.png")
	if err := os.WriteFile(p, []byte("previous content that is longer than the stub itself, much longer indeed"), 0o600); err != nil {
		t.Fatal(err)
	}
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Emit(context.Background(), Descriptor{Width: 16, Height: 16, Path: p}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Encode(16, 16, CRCPlaceholder), b); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestEmitOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets", "icons")
	e, err := New(WithOutputDir(dir), WithCRCMode(CRCComputed))
	if err != nil {
		t.Fatal(err)
	}
	d := Descriptor{Width: 32, Height: 64, Path: NameFor(32, 64)}
	if got := e.Path(d); got != filepath.Join(dir, "icon32x64.png") {
		t.Errorf("Path() = %s", got)
	}
	if err := e.Emit(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	chunks, err := ReadChunksFile(e.Path(d))
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		if !c.ValidCRC() {
			t.Errorf("%s: invalid crc", c.Type)
		}
	}
}

func TestEmitFailure(t *testing.T) {
	dir := t.TempDir()
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	err = e.EmitAll(context.Background(), []Descriptor{
		{Width: 16, Height: 16, Path: filepath.Join(dir, "missing", "icon16.png")},
		{Width: 48, Height: 48, Path: filepath.Join(dir, "icon48.png")},
	})
	if err == nil {
		t.Fatal("want error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want not exist", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "icon48.png")); !os.IsNotExist(err) {
		t.Error("emission should stop at the first failure")
	}
}

func TestEmitAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := e.EmitAll(ctx, []Descriptor{{Width: 1, Height: 1, Path: filepath.Join(t.TempDir(), "a.png")}}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestWriteTo(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	n, err := e.WriteTo(buf, Descriptor{Width: 48, Height: 48})
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(StubSize) {
		t.Errorf("n = %d, want %d", n, StubSize)
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		wantErr bool
	}{
		{"ok", Descriptor{16, 16, "icon16.png"}, false},
		{"zero width", Descriptor{0, 16, "a.png"}, true},
		{"zero height", Descriptor{16, 0, "a.png"}, true},
		{"empty path", Descriptor{16, 16, ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("Validate() error = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestDefaultIconSet(t *testing.T) {
	want := []Descriptor{
		{16, 16, "icon16.png"},
		{48, 48, "icon48.png"},
		{128, 128, "icon128.png"},
	}
	if diff := cmp.Diff(want, DefaultIconSet()); diff != "" {
		t.Errorf("DefaultIconSet() mismatch (-want +got):\n%s", diff)
	}
}
