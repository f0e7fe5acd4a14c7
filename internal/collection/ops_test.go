package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBookmark(t *testing.T) {
	t.Run("creates default folder lazily", func(t *testing.T) {
		folders := AddBookmark(nil, "1:1", "", Enrichment{})
		require.Len(t, folders, 1)
		assert.Equal(t, DefaultFolderName, folders[0].Name)
		require.Len(t, folders[0].Bookmarks, 1)
		assert.Equal(t, "1:1", folders[0].Bookmarks[0].VerseID)
		assert.False(t, folders[0].Bookmarks[0].CreatedAt.IsZero())
	})

	t.Run("prepends default folder when newly created", func(t *testing.T) {
		folders := []Folder{NewFolder("Favorites", "", "")}
		folders = AddBookmark(folders, "2:255", "", Enrichment{})
		require.Len(t, folders, 2)
		assert.Equal(t, DefaultFolderName, folders[0].Name)
		assert.Equal(t, "Favorites", folders[1].Name)
	})

	t.Run("reuses existing default folder", func(t *testing.T) {
		folders := AddBookmark(nil, "1:1", "", Enrichment{})
		folders = AddBookmark(folders, "1:2", "", Enrichment{})
		require.Len(t, folders, 1)
		assert.Len(t, folders[0].Bookmarks, 2)
	})

	t.Run("duplicate add anywhere is a no-op", func(t *testing.T) {
		a := NewFolder("A", "", "")
		b := NewFolder("B", "", "")
		folders := AddBookmark([]Folder{a, b}, "1:1", a.ID, Enrichment{})

		again := AddBookmark(folders, "1:1", b.ID, Enrichment{})
		assert.Equal(t, folders, again)
		assert.Empty(t, again[1].Bookmarks)
	})

	t.Run("numeric and string ids are the same verse", func(t *testing.T) {
		folders := AddBookmark(nil, 262, "", Enrichment{})
		again := AddBookmark(folders, "262", "", Enrichment{})
		assert.Equal(t, folders, again)
		assert.True(t, IsBookmarked(again, float64(262)))
	})

	t.Run("unknown target folder is a no-op", func(t *testing.T) {
		folders := []Folder{NewFolder("A", "", "")}
		out := AddBookmark(folders, "1:1", "missing", Enrichment{})
		assert.Equal(t, folders, out)
	})

	t.Run("does not mutate the input snapshot", func(t *testing.T) {
		a := NewFolder("A", "", "")
		folders := []Folder{a}
		_ = AddBookmark(folders, "1:1", a.ID, Enrichment{})
		assert.Empty(t, folders[0].Bookmarks)
	})

	t.Run("no verse ever appears in two folders", func(t *testing.T) {
		a := NewFolder("A", "", "")
		b := NewFolder("B", "", "")
		folders := []Folder{a, b}
		ids := []any{"1:1", "1:1", 7, "7", "2:255", "1:1", 7}
		targets := []string{a.ID, b.ID, b.ID, a.ID, "", b.ID, a.ID}
		for i, id := range ids {
			folders = AddBookmark(folders, id, targets[i], Enrichment{})
		}
		seen := map[string]int{}
		for _, f := range folders {
			for _, bm := range f.Bookmarks {
				seen[bm.VerseID]++
			}
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "verse %s duplicated", id)
		}
	})
}

func TestRemoveBookmark(t *testing.T) {
	t.Run("removes only from the named folder", func(t *testing.T) {
		a := NewFolder("A", "", "")
		b := NewFolder("B", "", "")
		folders := AddBookmark([]Folder{a, b}, "1:1", a.ID, Enrichment{})
		folders = AddBookmark(folders, "1:2", b.ID, Enrichment{})

		folders = RemoveBookmark(folders, "1:1", a.ID)
		assert.False(t, IsBookmarked(folders, "1:1"))
		assert.True(t, IsBookmarked(folders, "1:2"))
	})

	t.Run("idempotent", func(t *testing.T) {
		a := NewFolder("A", "", "")
		folders := AddBookmark([]Folder{a}, "1:1", a.ID, Enrichment{})
		once := RemoveBookmark(folders, "1:1", a.ID)
		twice := RemoveBookmark(once, "1:1", a.ID)
		assert.Equal(t, once, twice)
	})
}

func TestUpdateBookmark(t *testing.T) {
	t.Run("merges patch wherever the verse lives", func(t *testing.T) {
		a := NewFolder("A", "", "")
		folders := AddBookmark([]Folder{a}, "262", a.ID, Enrichment{})
		folders = UpdateBookmark(folders, 262, Enrichment{VerseKey: "2:255", SurahName: "Al-Baqarah"})

		_, bm := FindBookmark(folders, "262")
		require.NotNil(t, bm)
		assert.Equal(t, "2:255", bm.VerseKey)
		assert.Equal(t, "Al-Baqarah", bm.SurahName)
	})

	t.Run("zero patch fields keep earlier enrichment", func(t *testing.T) {
		a := NewFolder("A", "", "")
		folders := AddBookmark([]Folder{a}, "1:1", a.ID, Enrichment{VerseText: "text"})
		folders = UpdateBookmark(folders, "1:1", Enrichment{Translation: "tr"})

		_, bm := FindBookmark(folders, "1:1")
		require.NotNil(t, bm)
		assert.Equal(t, "text", bm.VerseText)
		assert.Equal(t, "tr", bm.Translation)
	})

	t.Run("absent verse is a no-op", func(t *testing.T) {
		folders := []Folder{NewFolder("A", "", "")}
		out := UpdateBookmark(folders, "9:9", Enrichment{VerseText: "x"})
		assert.Equal(t, folders, out)
	})
}

func TestFolderOps(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		f := NewFolder("Old", "", "")
		out := RenameFolder([]Folder{f}, f.ID, "New")
		assert.Equal(t, "New", out[0].Name)
	})

	t.Run("remove discards bookmarks with the folder", func(t *testing.T) {
		f := NewFolder("Gone", "", "")
		folders := AddBookmark([]Folder{f}, "1:1", f.ID, Enrichment{})
		out := RemoveFolder(folders, f.ID)
		assert.Empty(t, out)
		assert.False(t, IsBookmarked(out, "1:1"))
	})
}

func TestPinnedOps(t *testing.T) {
	t.Run("pin and unpin are independent of folders", func(t *testing.T) {
		f := NewFolder("A", "", "")
		folders := AddBookmark([]Folder{f}, "1:1", f.ID, Enrichment{})

		pinned := AddPinned(nil, "1:1", Enrichment{})
		assert.True(t, IsPinned(pinned, "1:1"))
		assert.True(t, IsBookmarked(folders, "1:1"))

		pinned = RemovePinned(pinned, "1:1")
		assert.False(t, IsPinned(pinned, "1:1"))
		assert.True(t, IsBookmarked(folders, "1:1"))
	})

	t.Run("duplicate pin is a no-op", func(t *testing.T) {
		pinned := AddPinned(nil, 7, Enrichment{})
		again := AddPinned(pinned, "7", Enrichment{})
		assert.Equal(t, pinned, again)
	})

	t.Run("update merges into pinned entry", func(t *testing.T) {
		pinned := AddPinned(nil, "1:1", Enrichment{})
		pinned = UpdatePinned(pinned, "1:1", Enrichment{VerseText: "text"})
		require.Len(t, pinned, 1)
		assert.Equal(t, "text", pinned[0].VerseText)
	})
}

func TestMemorization(t *testing.T) {
	t.Run("rejects non-positive target", func(t *testing.T) {
		_, err := NewMemorizationPlan("2", 0, "")
		assert.ErrorIs(t, err, ErrInvalidTarget)
	})

	t.Run("progress updates and downward correction", func(t *testing.T) {
		plan, err := NewMemorizationPlan("2", 286, "Al-Baqarah")
		require.NoError(t, err)
		plans := UpsertPlan(nil, plan)

		plans = UpdateMemorizationProgress(plans, "2", 10)
		assert.Equal(t, 10, plans["2"].CompletedVerses)

		plans = UpdateMemorizationProgress(plans, "2", 5)
		assert.Equal(t, 5, plans["2"].CompletedVerses)

		plans = UpdateMemorizationProgress(plans, "2", -3)
		assert.Equal(t, 0, plans["2"].CompletedVerses)
	})

	t.Run("progress on absent plan is a no-op", func(t *testing.T) {
		plans := Plans{}
		out := UpdateMemorizationProgress(plans, "114", 3)
		assert.Equal(t, plans, out)
	})

	t.Run("remove plan", func(t *testing.T) {
		plan, err := NewMemorizationPlan("114", 6, "")
		require.NoError(t, err)
		plans := UpsertPlan(nil, plan)
		plans = RemovePlan(plans, "114")
		assert.Empty(t, plans)
	})
}

func TestNormalizeVerseID(t *testing.T) {
	assert.Equal(t, "262", NormalizeVerseID(262))
	assert.Equal(t, "262", NormalizeVerseID(int64(262)))
	assert.Equal(t, "262", NormalizeVerseID(float64(262)))
	assert.Equal(t, "2:255", NormalizeVerseID("2:255"))
	assert.Equal(t, "", NormalizeVerseID(nil))
}
