package collection

import (
	"time"

	"github.com/YasinHossain/quran-app-sub003/internal/ident"
)

// Pure operations over folder snapshots. Every function returns a new slice
// and leaves its input untouched; "not found" is an unchanged-input no-op,
// never an error.

// NewFolder creates an empty folder with a generated id.
func NewFolder(name, color, icon string) Folder {
	return Folder{
		ID:        ident.New(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: time.Now(),
		Bookmarks: []Bookmark{},
	}
}

// FindBookmark locates a verse across all folders. At most one match can
// exist because AddBookmark enforces uniqueness; the first wins.
func FindBookmark(folders []Folder, verseID any) (*Folder, *Bookmark) {
	id := NormalizeVerseID(verseID)
	for i := range folders {
		for j := range folders[i].Bookmarks {
			if NormalizeVerseID(folders[i].Bookmarks[j].VerseID) == id {
				return &folders[i], &folders[i].Bookmarks[j]
			}
		}
	}
	return nil, nil
}

// IsBookmarked reports whether the verse appears in any folder.
func IsBookmarked(folders []Folder, verseID any) bool {
	_, b := FindBookmark(folders, verseID)
	return b != nil
}

// AddBookmark appends a bookmark for verseID to the folder named by folderID,
// or to a lazily created "Uncategorized" folder when folderID is empty. If the
// verse is already bookmarked anywhere the input is returned unchanged; a
// verse lives in exactly one folder.
func AddBookmark(folders []Folder, verseID any, folderID string, meta Enrichment) []Folder {
	id := NormalizeVerseID(verseID)
	if id == "" || IsBookmarked(folders, id) {
		return folders
	}

	out := cloneFolders(folders)

	target := -1
	if folderID == "" {
		for i := range out {
			if out[i].Name == DefaultFolderName {
				target = i
				break
			}
		}
		if target < 0 {
			out = append([]Folder{NewFolder(DefaultFolderName, "", "")}, out...)
			target = 0
		}
	} else {
		for i := range out {
			if out[i].ID == folderID {
				target = i
				break
			}
		}
		if target < 0 {
			return folders
		}
	}

	out[target].Bookmarks = append(out[target].Bookmarks, Bookmark{
		VerseID:    id,
		CreatedAt:  time.Now(),
		Enrichment: meta,
	})
	return out
}

// RemoveBookmark filters verseID out of the named folder. Other folders pass
// through untouched; removing an absent bookmark is a no-op.
func RemoveBookmark(folders []Folder, verseID any, folderID string) []Folder {
	id := NormalizeVerseID(verseID)
	out := cloneFolders(folders)
	for i := range out {
		if out[i].ID != folderID {
			continue
		}
		kept := make([]Bookmark, 0, len(out[i].Bookmarks))
		for _, b := range out[i].Bookmarks {
			if NormalizeVerseID(b.VerseID) != id {
				kept = append(kept, b)
			}
		}
		out[i].Bookmarks = kept
	}
	return out
}

// UpdateBookmark shallow-merges patch into the bookmark for verseID wherever
// it lives. Zero-valued patch fields leave the existing value alone, so a
// reconciliation merge never erases earlier enrichment.
func UpdateBookmark(folders []Folder, verseID any, patch Enrichment) []Folder {
	id := NormalizeVerseID(verseID)
	out := cloneFolders(folders)
	for i := range out {
		for j := range out[i].Bookmarks {
			if NormalizeVerseID(out[i].Bookmarks[j].VerseID) == id {
				out[i].Bookmarks[j].Enrichment = mergeEnrichment(out[i].Bookmarks[j].Enrichment, patch)
			}
		}
	}
	return out
}

// RenameFolder sets a new name on the folder with the given id.
func RenameFolder(folders []Folder, folderID, name string) []Folder {
	out := cloneFolders(folders)
	for i := range out {
		if out[i].ID == folderID {
			out[i].Name = name
		}
	}
	return out
}

// RemoveFolder drops the folder with the given id, discarding its bookmarks.
func RemoveFolder(folders []Folder, folderID string) []Folder {
	out := make([]Folder, 0, len(folders))
	for _, f := range folders {
		if f.ID != folderID {
			out = append(out, cloneFolder(f))
		}
	}
	return out
}

// Pinned-list analogues. The pinned list is flat membership, independent of
// the folder hierarchy.

// IsPinned reports whether the verse is in the pinned list.
func IsPinned(pinned []PinnedEntry, verseID any) bool {
	id := NormalizeVerseID(verseID)
	for _, p := range pinned {
		if NormalizeVerseID(p.VerseID) == id {
			return true
		}
	}
	return false
}

// AddPinned appends a pinned entry unless the verse is already pinned.
func AddPinned(pinned []PinnedEntry, verseID any, meta Enrichment) []PinnedEntry {
	id := NormalizeVerseID(verseID)
	if id == "" || IsPinned(pinned, id) {
		return pinned
	}
	out := make([]PinnedEntry, len(pinned), len(pinned)+1)
	copy(out, pinned)
	return append(out, PinnedEntry{VerseID: id, CreatedAt: time.Now(), Enrichment: meta})
}

// RemovePinned filters the verse out of the pinned list.
func RemovePinned(pinned []PinnedEntry, verseID any) []PinnedEntry {
	id := NormalizeVerseID(verseID)
	out := make([]PinnedEntry, 0, len(pinned))
	for _, p := range pinned {
		if NormalizeVerseID(p.VerseID) != id {
			out = append(out, p)
		}
	}
	return out
}

// UpdatePinned merges patch into the pinned entry for verseID, if present.
func UpdatePinned(pinned []PinnedEntry, verseID any, patch Enrichment) []PinnedEntry {
	id := NormalizeVerseID(verseID)
	out := make([]PinnedEntry, len(pinned))
	copy(out, pinned)
	for i := range out {
		if NormalizeVerseID(out[i].VerseID) == id {
			out[i].Enrichment = mergeEnrichment(out[i].Enrichment, patch)
		}
	}
	return out
}

func mergeEnrichment(base, patch Enrichment) Enrichment {
	if patch.VerseKey != "" {
		base.VerseKey = patch.VerseKey
	}
	if patch.VerseText != "" {
		base.VerseText = patch.VerseText
	}
	if patch.Translation != "" {
		base.Translation = patch.Translation
	}
	if patch.SurahName != "" {
		base.SurahName = patch.SurahName
	}
	if patch.VerseAPIID != 0 {
		base.VerseAPIID = patch.VerseAPIID
	}
	return base
}

func cloneFolders(folders []Folder) []Folder {
	out := make([]Folder, len(folders))
	for i, f := range folders {
		out[i] = cloneFolder(f)
	}
	return out
}

func cloneFolder(f Folder) Folder {
	bookmarks := make([]Bookmark, len(f.Bookmarks))
	copy(bookmarks, f.Bookmarks)
	f.Bookmarks = bookmarks
	return f
}
