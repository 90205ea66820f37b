package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	out "deskpulse/internal/modules/collector/adapter/out"
)

func writeManifests(t *testing.T, dir string, payload string) {
	t.Helper()
	collectorsDir := filepath.Join(dir, "collectors")
	if err := os.MkdirAll(collectorsDir, 0o755); err != nil {
		t.Fatalf("mkdir collectors: %v", err)
	}
	if err := os.WriteFile(filepath.Join(collectorsDir, "collectors.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write collectors.json: %v", err)
	}
}

func TestManifestStoreResolvesRelativeBinaries(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeManifests(t, tmp, `[
		{"name":"demo","version":"1.0.0","binary":"collectors/bin/demo","sha256":"`+strings.Repeat("ab", 32)+`","enabled":true,"capabilities":["samples"]},
		{"name":"absolute","version":"1.0.0","binary":"/usr/local/bin/other","sha256":"`+strings.Repeat("cd", 32)+`","enabled":false,"capabilities":["status"]}
	]`)

	manifests, err := out.NewFileManifestStore(tmp).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("expected two manifests, got %d", len(manifests))
	}
	want := filepath.Join(tmp, "collectors", "bin", "demo")
	if manifests[0].Binary != want {
		t.Fatalf("relative binary not resolved: got %q want %q", manifests[0].Binary, want)
	}
	if manifests[1].Binary != "/usr/local/bin/other" {
		t.Fatalf("absolute binary rewritten: %q", manifests[1].Binary)
	}
}

func TestManifestStoreRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeManifests(t, tmp, `[{"name":"demo","version":"1.0.0","binary":"demo","sha256":"`+strings.Repeat("ab", 32)+`","enabled":true,"capabilities":["samples"],"surprise":true}]`)

	if _, err := out.NewFileManifestStore(tmp).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field to be rejected")
	}
}

func TestManifestStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	manifests, err := out.NewFileManifestStore(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected no manifests, got %d", len(manifests))
	}
}
