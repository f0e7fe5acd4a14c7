package store

import (
	"encoding/json"
	"fmt"

	"github.com/YasinHossain/quran-app-sub003/internal/collection"
)

// Version "1" records carry the same structure as version "2" but stored
// verse ids as raw JSON numbers. Migration coerces every id to its canonical
// string form; everything else passes through.

func migrateFolders(version string, data json.RawMessage) (json.RawMessage, error) {
	if version != "1" {
		return nil, fmt.Errorf("unknown folders schema version %q", version)
	}

	var folders []struct {
		ID        string            `json:"id"`
		Name      string            `json:"name"`
		Color     string            `json:"color,omitempty"`
		Icon      string            `json:"icon,omitempty"`
		CreatedAt json.RawMessage   `json:"createdAt"`
		Bookmarks []json.RawMessage `json:"bookmarks"`
	}
	if err := json.Unmarshal(data, &folders); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(folders))
	for _, f := range folders {
		bookmarks := make([]json.RawMessage, 0, len(f.Bookmarks))
		for _, raw := range f.Bookmarks {
			migrated, err := migrateBookmark(raw)
			if err != nil {
				return nil, err
			}
			bookmarks = append(bookmarks, migrated)
		}
		out = append(out, map[string]any{
			"id":        f.ID,
			"name":      f.Name,
			"color":     f.Color,
			"icon":      f.Icon,
			"createdAt": f.CreatedAt,
			"bookmarks": bookmarks,
		})
	}
	return json.Marshal(out)
}

func migratePinned(version string, data json.RawMessage) (json.RawMessage, error) {
	if version != "1" {
		return nil, fmt.Errorf("unknown pinned schema version %q", version)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(entries))
	for _, raw := range entries {
		migrated, err := migrateBookmark(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, migrated)
	}
	return json.Marshal(out)
}

func migrateBackup(version string, data json.RawMessage) (json.RawMessage, error) {
	if version != "1" {
		return nil, fmt.Errorf("unknown backup schema version %q", version)
	}

	var b struct {
		Folders  json.RawMessage `json:"folders"`
		Pinned   json.RawMessage `json:"pinnedVerses"`
		LastRead json.RawMessage `json:"lastRead"`
		Plans    json.RawMessage `json:"memorization"`
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}

	out := map[string]json.RawMessage{
		"lastRead":     b.LastRead,
		"memorization": b.Plans,
	}
	if b.Folders != nil {
		folders, err := migrateFolders(version, b.Folders)
		if err != nil {
			return nil, err
		}
		out["folders"] = folders
	}
	if b.Pinned != nil {
		pinned, err := migratePinned(version, b.Pinned)
		if err != nil {
			return nil, err
		}
		out["pinnedVerses"] = pinned
	}
	return json.Marshal(out)
}

// migrateBookmark rewrites one bookmark object, string-coercing verseId.
func migrateBookmark(raw json.RawMessage) (json.RawMessage, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if id, ok := fields["verseId"]; ok {
		fields["verseId"] = collection.NormalizeVerseID(id)
	}
	return json.Marshal(fields)
}
