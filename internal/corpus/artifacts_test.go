package corpus_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
)

func TestWriteJSONAndManifestVerification(t *testing.T) {
	dir := t.TempDir()
	page := corpus.Page{Number: 1, Fragments: []corpus.Fragment{{Chapter: 1, Verse: 1, Text: "x"}}}

	digest, err := corpus.WriteJSON(filepath.Join(dir, "page_1.json"), page)
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if len(digest) != 64 {
		t.Fatalf("expected 32-byte hex digest, got %q", digest)
	}

	manifest := corpus.NewManifest("ara-quransimple", "run-1")
	manifest.Record("page_1.json", digest)
	manifestPath := filepath.Join(dir, "manifest.json")
	if err := corpus.WriteManifest(manifestPath, manifest); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	loaded, err := corpus.ReadManifest(manifestPath)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	ok, err := loaded.VerifyArtifact(dir, "page_1.json")
	if err != nil {
		t.Fatalf("VerifyArtifact failed: %v", err)
	}
	if !ok {
		t.Fatal("expected digest to verify")
	}

	// Tamper with the artifact and check detection.
	if err := os.WriteFile(filepath.Join(dir, "page_1.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("tamper write: %v", err)
	}
	ok, err = loaded.VerifyArtifact(dir, "page_1.json")
	if err != nil {
		t.Fatalf("VerifyArtifact after tamper failed: %v", err)
	}
	if ok {
		t.Fatal("expected tampered artifact to fail verification")
	}

	// Unrecorded artifacts are not an error.
	ok, err = loaded.VerifyArtifact(dir, "page_2.json")
	if err != nil || !ok {
		t.Fatalf("unrecorded artifact should pass: ok=%v err=%v", ok, err)
	}
}

func TestReadDocumentErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := corpus.ReadDocument(filepath.Join(dir, "absent.json")); err == nil {
		t.Fatal("expected error for missing corpus file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write bad file: %v", err)
	}
	if _, err := corpus.ReadDocument(bad); err == nil {
		t.Fatal("expected error for malformed corpus file")
	}
}

func TestReadChapterNames(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.json")
	if err := os.WriteFile(path, []byte(`{"1":"الفاتحة","2":"البقرة"}`), 0o644); err != nil {
		t.Fatalf("write names: %v", err)
	}

	names, err := corpus.ReadChapterNames(path)
	if err != nil {
		t.Fatalf("ReadChapterNames failed: %v", err)
	}
	if names[1] != "الفاتحة" || names[2] != "البقرة" {
		t.Fatalf("unexpected names: %v", names)
	}

	if err := os.WriteFile(path, []byte(`{"abc":"x"}`), 0o644); err != nil {
		t.Fatalf("write invalid names: %v", err)
	}
	if _, err := corpus.ReadChapterNames(path); err == nil {
		t.Fatal("expected error for non-numeric chapter id")
	}
}
