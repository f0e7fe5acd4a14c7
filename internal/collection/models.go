package collection

import (
	"strconv"
	"time"
)

// DefaultFolderName is the well-known name of the folder that receives
// bookmarks added without an explicit target.
const DefaultFolderName = "Uncategorized"

// Folder is a named, user-created container of bookmarks. A folder owns its
// bookmark list; deleting the folder discards them.
type Folder struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// Bookmark is a saved reference to a verse. Only VerseID and CreatedAt are
// guaranteed; the rest arrives later through reconciliation.
type Bookmark struct {
	VerseID   string    `json:"verseId"`
	CreatedAt time.Time `json:"createdAt"`
	Enrichment
}

// Enrichment holds the metadata a reconciliation fetch resolves for a bare
// verse id. Zero values mean "not resolved yet".
type Enrichment struct {
	VerseKey    string `json:"verseKey,omitempty"`
	VerseText   string `json:"verseText,omitempty"`
	Translation string `json:"translation,omitempty"`
	SurahName   string `json:"surahName,omitempty"`
	VerseAPIID  int    `json:"verseApiId,omitempty"`
}

// PinnedEntry is a bookmark-shaped record living in a flat quick-access list
// outside the folder hierarchy. Pinned and bookmarked are independent sets.
type PinnedEntry = Bookmark

// LastReadEntry records the last-read position within one chapter.
type LastReadEntry struct {
	Verse      int    `json:"verse"`
	VerseKey   string `json:"verseKey,omitempty"`
	VerseAPIID int    `json:"verseApiId,omitempty"`
}

// LastReadMap maps a chapter id to its last-read position, one entry per
// chapter, last write wins.
type LastReadMap map[string]LastReadEntry

// MemorizationPlan tracks progress memorizing one surah, keyed by SurahID.
type MemorizationPlan struct {
	ID              string    `json:"id"`
	SurahID         string    `json:"surahId"`
	Name            string    `json:"name,omitempty"`
	TargetVerses    int       `json:"targetVerses"`
	CompletedVerses int       `json:"completedVerses"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdated     time.Time `json:"lastUpdated"`
	Notes           string    `json:"notes,omitempty"`
}

// Plans maps a surah id to its memorization plan.
type Plans map[string]MemorizationPlan

// NormalizeVerseID coerces a verse id to its canonical string form so that
// ids arriving as numbers and as strings compare equal. Integral float input
// (a number deserialized from JSON) loses its trailing ".0".
func NormalizeVerseID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
