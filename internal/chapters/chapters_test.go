package chapters_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nenoeldeeb/quran-databases/internal/chapters"
	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/logging"
	"github.com/Nenoeldeeb/quran-databases/internal/quranapi"
)

type fakeInfoFetcher struct {
	info  *quranapi.Info
	err   error
	calls int
}

func (f *fakeInfoFetcher) FetchInfo(context.Context) (*quranapi.Info, error) {
	f.calls++
	return f.info, f.err
}

func sampleInfo() *quranapi.Info {
	return &quranapi.Info{
		Chapters: []quranapi.InfoChapter{
			{Chapter: 1, Name: "Al-Fatihah", ArabicName: "الفاتحة"},
			{Chapter: 2, Name: "Al-Baqarah", ArabicName: "البقرة"},
		},
	}
}

func TestEnsureInfoDownloadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	infoPath := filepath.Join(dir, "quran_info.json")
	fetcher := &fakeInfoFetcher{info: sampleInfo()}

	info, err := chapters.EnsureInfo(context.Background(), fetcher, infoPath, logging.NewNop())
	if err != nil {
		t.Fatalf("EnsureInfo failed: %v", err)
	}
	if len(info.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(info.Chapters))
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls)
	}
	if _, err := os.Stat(infoPath); err != nil {
		t.Fatalf("expected cached info file: %v", err)
	}

	// A second call must reuse the cache without touching the fetcher.
	info, err = chapters.EnsureInfo(context.Background(), fetcher, infoPath, logging.NewNop())
	if err != nil {
		t.Fatalf("EnsureInfo with cache failed: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected cached read, fetcher called %d times", fetcher.calls)
	}
	if info.Chapters[1].ArabicName != "البقرة" {
		t.Fatalf("unexpected cached chapter name %q", info.Chapters[1].ArabicName)
	}
}

func TestEnsureInfoRejectsCorruptCache(t *testing.T) {
	dir := t.TempDir()
	infoPath := filepath.Join(dir, "quran_info.json")
	if err := os.WriteFile(infoPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt cache: %v", err)
	}

	fetcher := &fakeInfoFetcher{info: sampleInfo()}
	if _, err := chapters.EnsureInfo(context.Background(), fetcher, infoPath, logging.NewNop()); err == nil {
		t.Fatal("expected error for corrupt cached info")
	}
	if fetcher.calls != 0 {
		t.Fatalf("corrupt cache must not trigger a download, fetcher called %d times", fetcher.calls)
	}
}

func TestEnsureInfoPropagatesFetchError(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakeInfoFetcher{err: errors.New("boom")}
	if _, err := chapters.EnsureInfo(context.Background(), fetcher, filepath.Join(dir, "quran_info.json"), logging.NewNop()); err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}

func TestNames(t *testing.T) {
	names, err := chapters.Names(sampleInfo())
	if err != nil {
		t.Fatalf("Names failed: %v", err)
	}
	if names[1] != "الفاتحة" || names[2] != "البقرة" {
		t.Fatalf("unexpected names map: %v", names)
	}
}

func TestNamesRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		info *quranapi.Info
	}{
		{"nil info", nil},
		{"empty chapters", &quranapi.Info{}},
		{"invalid id", &quranapi.Info{Chapters: []quranapi.InfoChapter{{Chapter: 0, ArabicName: "x"}}}},
		{"missing arabic name", &quranapi.Info{Chapters: []quranapi.InfoChapter{{Chapter: 1}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := chapters.Names(tc.info); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestWriteNamesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quran_chapters_names.json")

	if err := chapters.WriteNames(path, map[int]string{1: "الفاتحة", 114: "الناس"}); err != nil {
		t.Fatalf("WriteNames failed: %v", err)
	}

	// The loader reads the file back through corpus.ReadChapterNames.
	names, err := corpus.ReadChapterNames(path)
	if err != nil {
		t.Fatalf("ReadChapterNames failed: %v", err)
	}
	if names[1] != "الفاتحة" || names[114] != "الناس" {
		t.Fatalf("unexpected round-tripped names: %v", names)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read names file: %v", err)
	}
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("names file is not a flat object: %v", err)
	}
	if flat["114"] != "الناس" {
		t.Fatalf("expected string chapter keys, got %v", flat)
	}
}
