package corpus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fragment is one verse occurrence as it appears on a page.
type Fragment struct {
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
}

// Key returns the natural key identifying the logical verse.
func (f Fragment) Key() VerseKey {
	return VerseKey{Chapter: f.Chapter, Verse: f.Verse}
}

// VerseKey is the (chapter, verse number) pair that identifies a logical
// verse regardless of which pages reference it.
type VerseKey struct {
	Chapter int
	Verse   int
}

// Page holds the ordered fragments of a single corpus page.
type Page struct {
	Number    int
	Fragments []Fragment
}

// Document is an ordered collection of pages, ascending by page number with
// gaps allowed for pages absent from a download run.
type Document struct {
	Pages []Page
}

// pageKey renders the wire key for a page object ("page_<N>").
func pageKey(number int) string {
	return "page_" + strconv.Itoa(number)
}

// parsePageKey extracts the page number from a "page_<N>" wire key.
func parsePageKey(key string) (int, error) {
	_, suffix, ok := strings.Cut(key, "_")
	if !ok {
		return 0, fmt.Errorf("malformed page key %q", key)
	}
	number, err := strconv.Atoi(suffix)
	if err != nil || number < 1 {
		return 0, fmt.Errorf("malformed page key %q", key)
	}
	return number, nil
}

// MarshalJSON renders the page as a single-key object: {"page_<N>": [...]}.
func (p Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Fragment{pageKey(p.Number): p.Fragments})
}

// UnmarshalJSON accepts the single-key wire object and recovers the page
// number from its key.
func (p *Page) UnmarshalJSON(data []byte) error {
	var raw map[string][]Fragment
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("page object must have exactly one key, got %d", len(raw))
	}
	for key, fragments := range raw {
		number, err := parsePageKey(key)
		if err != nil {
			return err
		}
		p.Number = number
		p.Fragments = fragments
	}
	return nil
}

// MarshalJSON renders the combined corpus artifact: {"pages": [...]}.
func (d Document) MarshalJSON() ([]byte, error) {
	pages := d.Pages
	if pages == nil {
		pages = []Page{}
	}
	return json.Marshal(map[string][]Page{"pages": pages})
}

// UnmarshalJSON parses the combined corpus artifact.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pages []Page `json:"pages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Pages = raw.Pages
	return nil
}

// FragmentCount reports the total number of fragments across all pages.
func (d Document) FragmentCount() int {
	total := 0
	for _, page := range d.Pages {
		total += len(page.Fragments)
	}
	return total
}
