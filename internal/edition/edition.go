// Package edition catalogs the Quran text editions the downloader understands.
package edition

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Edition identifies one Quran text edition served by the CDN.
type Edition struct {
	ID          string
	Description string
}

// The editions mirror the page-oriented Arabic texts published by the
// quran-api CDN. Page numbers run 1..604 in all of them.
var known = []Edition{
	{ID: "ara-quransimple", Description: "Simple script"},
	{ID: "ara-quranuthmanienc", Description: "Uthmani script, encoded"},
	{ID: "ara-quranuthmanihaf", Description: "Uthmani script, Hafs"},
	{ID: "ara-quranuthmanihaf1", Description: "Uthmani script, Hafs variant"},
}

// All returns the known editions sorted by identifier.
func All() []Edition {
	editions := append([]Edition(nil), known...)
	sort.Slice(editions, func(i, j int) bool { return editions[i].ID < editions[j].ID })
	return editions
}

// Validate checks that the identifier names a known edition.
func Validate(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("edition is required (one of: %s)", strings.Join(ids(), ", "))
	}
	for _, e := range known {
		if e.ID == id {
			return nil
		}
	}
	return fmt.Errorf("unknown edition %q (one of: %s)", id, strings.Join(ids(), ", "))
}

// DisplayName renders a human-readable name for an edition identifier,
// e.g. "ara-quransimple" becomes "Quransimple (ara)".
func DisplayName(id string) string {
	lang, name, ok := strings.Cut(id, "-")
	if !ok {
		return id
	}
	title := cases.Title(language.English)
	return fmt.Sprintf("%s (%s)", title.String(name), lang)
}

func ids() []string {
	out := make([]string, 0, len(known))
	for _, e := range known {
		out = append(out, e.ID)
	}
	sort.Strings(out)
	return out
}
