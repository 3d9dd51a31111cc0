// Package chapters produces the chapter-name map consumed by the loader.
//
// It fetches the corpus-info document (or reuses a cached copy), extracts
// each chapter's identifier and Arabic name, and persists the flat map as
// quran_chapters_names.json.
package chapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/logging"
	"github.com/Nenoeldeeb/quran-databases/internal/quranapi"
)

// InfoFetcher is the remote operation this package depends on.
type InfoFetcher interface {
	FetchInfo(ctx context.Context) (*quranapi.Info, error)
}

// EnsureInfo returns the corpus-info document, reading the cached copy at
// infoPath when present and downloading (then caching) it otherwise.
func EnsureInfo(ctx context.Context, fetcher InfoFetcher, infoPath string, logger *slog.Logger) (*quranapi.Info, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	data, err := os.ReadFile(infoPath)
	switch {
	case err == nil:
		var info quranapi.Info
		if err := json.Unmarshal(data, &info); err != nil {
			return nil, fmt.Errorf("parse cached info %s: %w", infoPath, err)
		}
		return &info, nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("info document not cached, downloading", slog.String("path", infoPath))
	default:
		return nil, fmt.Errorf("read cached info %s: %w", infoPath, err)
	}

	info, err := fetcher.FetchInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("download info document: %w", err)
	}
	if _, err := corpus.WriteJSON(infoPath, info); err != nil {
		return nil, fmt.Errorf("cache info document: %w", err)
	}
	return info, nil
}

// Names extracts the chapter-id to Arabic-name map from an info document.
func Names(info *quranapi.Info) (map[int]string, error) {
	if info == nil || len(info.Chapters) == 0 {
		return nil, errors.New("info document lists no chapters")
	}
	names := make(map[int]string, len(info.Chapters))
	for _, chapter := range info.Chapters {
		if chapter.Chapter < 1 {
			return nil, fmt.Errorf("info document has invalid chapter id %d", chapter.Chapter)
		}
		if chapter.ArabicName == "" {
			return nil, fmt.Errorf("chapter %d has no arabic name", chapter.Chapter)
		}
		names[chapter.Chapter] = chapter.ArabicName
	}
	return names, nil
}

// WriteNames persists the chapter-name map in the flat wire format the
// loader reads back (string chapter ids as keys).
func WriteNames(path string, names map[int]string) error {
	flat := make(map[string]string, len(names))
	for id, name := range names {
		flat[strconv.Itoa(id)] = name
	}
	if _, err := corpus.WriteJSON(path, flat); err != nil {
		return fmt.Errorf("write chapter names: %w", err)
	}
	return nil
}
