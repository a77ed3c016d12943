package carriers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carriers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeFile(t, `---
carriers:
  AA: American Airlines
  af: " Air France "
  "": Nobody
  ZZ: ""
`)

	names, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Load() = %v, want 2 carriers", names)
	}
	if names["AF"] != "Air France" {
		t.Errorf("AF = %q, want trimmed and upper-cased key", names["AF"])
	}
}

func TestLoaderLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.yaml")},
		{name: "invalid yaml", path: writeFile(t, "carriers: [unterminated")},
		{name: "no carriers", path: writeFile(t, "carriers: {}\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLoader(tt.path).Load(); err == nil {
				t.Error("Load() should have failed")
			}
		})
	}
}

func TestDirectory(t *testing.T) {
	d := NewDirectory()
	if _, ok := d.Name("AA"); ok {
		t.Fatal("empty directory resolved a code")
	}
	if !d.LoadedAt().IsZero() {
		t.Error("LoadedAt() should be zero before the first load")
	}

	d.Replace(map[string]string{"aa": "American Airlines"})
	if name, ok := d.Name("AA"); !ok || name != "American Airlines" {
		t.Errorf("Name(AA) = %q, %v", name, ok)
	}
	if name, ok := d.Name("aa"); !ok || name != "American Airlines" {
		t.Errorf("Name(aa) = %q, %v", name, ok)
	}

	d.Replace(map[string]string{"BA": "British Airways"})
	if _, ok := d.Name("AA"); ok {
		t.Error("Replace() kept a stale entry")
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}
