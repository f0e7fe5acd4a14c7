package store

import (
	"context"
	"sync"
	"time"

	"github.com/YasinHossain/quran-app-sub003/internal/collection"
	"github.com/YasinHossain/quran-app-sub003/internal/persist"
)

// Storage keys, one per logical key-space.
const (
	keyFolders      = "collections.folders"
	keyPinned       = "collections.pinned"
	keyLastRead     = "collections.lastread"
	keyMemorization = "collections.memorization"
	keyBackup       = "collections.backup"
)

// currentVersion tags every persisted record. Version "1" predates the
// string-coerced verse id and migrates forward on load.
const currentVersion = "2"

// Origin tells a listener what caused a change, so a cross-store sync can
// skip reacting to updates it caused itself instead of guessing with a
// timing flag.
type Origin int

const (
	// OriginLocal is a user-driven operation on this store.
	OriginLocal Origin = iota
	// OriginExternal is a patch applied on behalf of another store.
	OriginExternal
	// OriginReconcile is a background metadata merge.
	OriginReconcile
)

// Snapshot is the state handed to listeners. All fields are copy-on-write:
// the store never mutates a snapshot it has handed out, and callers must
// treat it as read-only.
type Snapshot struct {
	Folders  []collection.Folder
	Pinned   []collection.PinnedEntry
	LastRead collection.LastReadMap
	Plans    collection.Plans
	Origin   Origin
}

// Listener observes completed operations. It fires once per operation with
// the new snapshot.
type Listener func(Snapshot)

// Reconciler schedules background resolution of a bare verse id and returns
// immediately.
type Reconciler interface {
	Reconcile(ctx context.Context, verseID string)
}

// Options configures a Store.
type Options struct {
	// Debounce overrides the persistence write delay. Zero keeps the
	// default.
	Debounce time.Duration
}

// Store is the stateful container around the pure collection operations. It
// loads the four collection roots from persistence, applies pure
// transformations under a single mutex, schedules debounced writes, and
// spawns metadata reconciliation for newly added bookmarks.
type Store struct {
	mu       sync.Mutex
	folders  []collection.Folder
	pinned   []collection.PinnedEntry
	lastRead collection.LastReadMap
	plans    collection.Plans

	foldersRec  *persist.Records
	pinnedRec   *persist.Records
	lastReadRec *persist.Records
	plansRec    *persist.Records
	backupRec   *persist.Records

	reconciler Reconciler

	listeners  map[int]Listener
	nextListen int
}

// New builds a store over adapter and loads all four roots.
func New(adapter persist.Adapter, opts Options) *Store {
	rec := func(key string, migrate persist.MigrateFunc) *persist.Records {
		return persist.NewRecords(adapter, persist.Options{
			Key:     key,
			Version: currentVersion,
			Delay:   opts.Debounce,
			Migrate: migrate,
		})
	}

	s := &Store{
		folders:     []collection.Folder{},
		pinned:      []collection.PinnedEntry{},
		lastRead:    collection.LastReadMap{},
		plans:       collection.Plans{},
		foldersRec:  rec(keyFolders, migrateFolders),
		pinnedRec:   rec(keyPinned, migratePinned),
		lastReadRec: rec(keyLastRead, nil),
		plansRec:    rec(keyMemorization, nil),
		backupRec:   rec(keyBackup, migrateBackup),
		listeners:   make(map[int]Listener),
	}

	s.foldersRec.Load(&s.folders)
	s.pinnedRec.Load(&s.pinned)
	s.lastReadRec.Load(&s.lastRead)
	s.plansRec.Load(&s.plans)
	return s
}

// SetReconciler wires the reconciliation service. The service needs the
// store as its applier, so this runs after both are constructed. Entries
// that loaded without metadata are re-requested right away, so a resolution
// that never landed in an earlier session gets another attempt.
func (s *Store) SetReconciler(r Reconciler) {
	s.mu.Lock()
	s.reconciler = r
	pending := unenrichedVerses(s.folders, s.pinned)
	s.mu.Unlock()

	for _, id := range pending {
		r.Reconcile(context.Background(), id)
	}
}

// unenrichedVerses collects de-duplicated verse ids that have no resolved
// metadata yet, across folders and the pinned list.
func unenrichedVerses(folders []collection.Folder, pinned []collection.PinnedEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(b collection.Bookmark) {
		if b.VerseKey != "" {
			return
		}
		id := collection.NormalizeVerseID(b.VerseID)
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, f := range folders {
		for _, b := range f.Bookmarks {
			add(b)
		}
	}
	for _, p := range pinned {
		add(p)
	}
	return out
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// snapshotLocked builds the listener snapshot. Caller holds s.mu.
func (s *Store) snapshotLocked(origin Origin) (Snapshot, []Listener) {
	snap := Snapshot{
		Folders:  s.folders,
		Pinned:   s.pinned,
		LastRead: s.lastRead,
		Plans:    s.plans,
		Origin:   origin,
	}
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	return snap, ls
}

func notify(snap Snapshot, ls []Listener) {
	for _, l := range ls {
		l(snap)
	}
}

// Folder operations

// CreateFolder adds a new empty folder and returns it.
func (s *Store) CreateFolder(name, color, icon string) collection.Folder {
	s.mu.Lock()
	folder := collection.NewFolder(name, color, icon)
	next := make([]collection.Folder, len(s.folders), len(s.folders)+1)
	copy(next, s.folders)
	s.folders = append(next, folder)
	s.foldersRec.Save(s.folders)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
	return folder
}

// RenameFolder renames the folder with the given id. Unknown ids are a
// no-op.
func (s *Store) RenameFolder(folderID, name string) {
	s.mu.Lock()
	s.folders = collection.RenameFolder(s.folders, folderID, name)
	s.foldersRec.Save(s.folders)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// DeleteFolder removes a folder and discards its bookmarks.
func (s *Store) DeleteFolder(folderID string) {
	s.mu.Lock()
	s.folders = collection.RemoveFolder(s.folders, folderID)
	s.foldersRec.Save(s.folders)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// Folders returns the current folder snapshot. Read-only for the caller.
func (s *Store) Folders() []collection.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folders
}

// Bookmark operations

// AddBookmark bookmarks verseID in the folder with folderID (or the default
// folder when empty) and kicks off metadata reconciliation. Adding an
// already-bookmarked verse is a no-op and reports false.
func (s *Store) AddBookmark(verseID any, folderID string) bool {
	id := collection.NormalizeVerseID(verseID)

	s.mu.Lock()
	if id == "" || collection.IsBookmarked(s.folders, id) {
		s.mu.Unlock()
		return false
	}
	before := len(allBookmarks(s.folders))
	s.folders = collection.AddBookmark(s.folders, id, folderID, collection.Enrichment{})
	added := len(allBookmarks(s.folders)) > before
	if !added {
		// Unknown explicit target folder.
		s.mu.Unlock()
		return false
	}
	s.foldersRec.Save(s.folders)
	snap, ls := s.snapshotLocked(OriginLocal)
	reconciler := s.reconciler
	s.mu.Unlock()

	notify(snap, ls)
	if reconciler != nil {
		reconciler.Reconcile(context.Background(), id)
	}
	return true
}

// RemoveBookmark removes verseID from the folder with folderID.
func (s *Store) RemoveBookmark(verseID any, folderID string) {
	s.mu.Lock()
	s.folders = collection.RemoveBookmark(s.folders, verseID, folderID)
	s.foldersRec.Save(s.folders)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// ToggleBookmark toggles verseID. An absent verse is added to folderID (or
// the default folder when empty). A present verse is removed from whichever
// folder actually owns it — unless folderID names a different folder, in
// which case the bookmark moves there instead of duplicating or vanishing.
// Returns true when the verse ends up bookmarked.
func (s *Store) ToggleBookmark(verseID any, folderID string) bool {
	id := collection.NormalizeVerseID(verseID)

	s.mu.Lock()
	owner, bm := collection.FindBookmark(s.folders, id)
	if owner != nil {
		moving := folderID != "" && folderID != owner.ID
		meta := bm.Enrichment
		s.folders = collection.RemoveBookmark(s.folders, id, owner.ID)
		if moving {
			s.folders = collection.AddBookmark(s.folders, id, folderID, meta)
		}
		stillBookmarked := collection.IsBookmarked(s.folders, id)
		s.foldersRec.Save(s.folders)
		snap, ls := s.snapshotLocked(OriginLocal)
		s.mu.Unlock()

		notify(snap, ls)
		return stillBookmarked
	}
	s.mu.Unlock()

	return s.AddBookmark(id, folderID)
}

// UpdateBookmark merges patch into the bookmark for verseID, wherever it
// lives.
func (s *Store) UpdateBookmark(verseID any, patch collection.Enrichment) {
	s.mu.Lock()
	s.folders = collection.UpdateBookmark(s.folders, verseID, patch)
	s.foldersRec.Save(s.folders)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// ApplyEnrichment is the reconciliation merge path. It updates the folder
// collection and the pinned list through the same existence-checked pure
// operations as user edits, so enriching a since-deleted verse is a no-op.
func (s *Store) ApplyEnrichment(verseID string, patch collection.Enrichment) {
	s.mu.Lock()
	s.folders = collection.UpdateBookmark(s.folders, verseID, patch)
	s.pinned = collection.UpdatePinned(s.pinned, verseID, patch)
	s.foldersRec.Save(s.folders)
	s.pinnedRec.Save(s.pinned)
	snap, ls := s.snapshotLocked(OriginReconcile)
	s.mu.Unlock()

	notify(snap, ls)
}

// IsBookmarked reports whether verseID appears in any folder.
func (s *Store) IsBookmarked(verseID any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.IsBookmarked(s.folders, verseID)
}

// BookmarkedVerses returns the de-duplicated verse ids bookmarked across
// all folders.
func (s *Store) BookmarkedVerses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return allBookmarks(s.folders)
}

func allBookmarks(folders []collection.Folder) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range folders {
		for _, b := range f.Bookmarks {
			id := collection.NormalizeVerseID(b.VerseID)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Pinned operations

// TogglePinned flips verseID's membership in the pinned list and returns
// the new state. Newly pinned verses are reconciled like bookmarks.
func (s *Store) TogglePinned(verseID any) bool {
	id := collection.NormalizeVerseID(verseID)

	s.mu.Lock()
	pinned := !collection.IsPinned(s.pinned, id)
	if pinned {
		s.pinned = collection.AddPinned(s.pinned, id, collection.Enrichment{})
	} else {
		s.pinned = collection.RemovePinned(s.pinned, id)
	}
	s.pinnedRec.Save(s.pinned)
	snap, ls := s.snapshotLocked(OriginLocal)
	reconciler := s.reconciler
	s.mu.Unlock()

	notify(snap, ls)
	if pinned && reconciler != nil {
		reconciler.Reconcile(context.Background(), id)
	}
	return pinned
}

// IsPinned reports whether verseID is in the pinned list.
func (s *Store) IsPinned(verseID any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.IsPinned(s.pinned, verseID)
}

// PinnedVerses returns the current pinned snapshot. Read-only for the
// caller.
func (s *Store) PinnedVerses() []collection.PinnedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinned
}

// Last-read tracking

// SetLastRead records the last-read position for a chapter, overwriting any
// previous entry for it.
func (s *Store) SetLastRead(chapterID string, entry collection.LastReadEntry) {
	s.mu.Lock()
	next := make(collection.LastReadMap, len(s.lastRead)+1)
	for k, v := range s.lastRead {
		next[k] = v
	}
	next[chapterID] = entry
	s.lastRead = next
	s.lastReadRec.Save(s.lastRead)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// LastRead returns the last-read map. Read-only for the caller.
func (s *Store) LastRead() collection.LastReadMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRead
}

// Memorization

// CreateMemorizationPlan creates (or replaces) the plan for surahID.
func (s *Store) CreateMemorizationPlan(surahID string, targetVerses int, name string) (collection.MemorizationPlan, error) {
	plan, err := collection.NewMemorizationPlan(surahID, targetVerses, name)
	if err != nil {
		return collection.MemorizationPlan{}, err
	}

	s.mu.Lock()
	s.plans = collection.UpsertPlan(s.plans, plan)
	s.plansRec.Save(s.plans)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
	return plan, nil
}

// UpdateMemorizationProgress sets the completed verse count for surahID's
// plan. Absent plans are a no-op.
func (s *Store) UpdateMemorizationProgress(surahID string, completed int) {
	s.mu.Lock()
	s.plans = collection.UpdateMemorizationProgress(s.plans, surahID, completed)
	s.plansRec.Save(s.plans)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// DeleteMemorizationPlan removes the plan for surahID.
func (s *Store) DeleteMemorizationPlan(surahID string) {
	s.mu.Lock()
	s.plans = collection.RemovePlan(s.plans, surahID)
	s.plansRec.Save(s.plans)
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// MemorizationPlans returns the plan map. Read-only for the caller.
func (s *Store) MemorizationPlans() collection.Plans {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans
}

// External applies

// ApplyExternal runs a whole-state patch on behalf of another store and
// notifies listeners with OriginExternal. A bidirectional sync subscribes,
// skips snapshots tagged OriginExternal, and thereby never reacts to its
// own echo.
func (s *Store) ApplyExternal(patch func(Snapshot) Snapshot) {
	s.mu.Lock()
	cur, _ := s.snapshotLocked(OriginExternal)
	next := patch(cur)
	if next.Folders != nil {
		s.folders = next.Folders
		s.foldersRec.Save(s.folders)
	}
	if next.Pinned != nil {
		s.pinned = next.Pinned
		s.pinnedRec.Save(s.pinned)
	}
	if next.LastRead != nil {
		s.lastRead = next.LastRead
		s.lastReadRec.Save(s.lastRead)
	}
	if next.Plans != nil {
		s.plans = next.Plans
		s.plansRec.Save(s.plans)
	}
	snap, ls := s.snapshotLocked(OriginExternal)
	s.mu.Unlock()

	notify(snap, ls)
}

// Snapshot lifecycle

// Flush writes any pending debounced saves immediately.
func (s *Store) Flush() {
	s.foldersRec.Flush()
	s.pinnedRec.Flush()
	s.lastReadRec.Flush()
	s.plansRec.Flush()
	s.backupRec.Flush()
}

// Reset drops all persisted records and returns every root to its default.
// Pending writes are cancelled first so they cannot resurrect state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.folders = []collection.Folder{}
	s.pinned = []collection.PinnedEntry{}
	s.lastRead = collection.LastReadMap{}
	s.plans = collection.Plans{}
	s.foldersRec.Reset()
	s.pinnedRec.Reset()
	s.lastReadRec.Reset()
	s.plansRec.Reset()
	s.backupRec.Reset()
	snap, ls := s.snapshotLocked(OriginLocal)
	s.mu.Unlock()

	notify(snap, ls)
}

// backup is the combined export payload.
type backup struct {
	Folders  []collection.Folder      `json:"folders"`
	Pinned   []collection.PinnedEntry `json:"pinnedVerses"`
	LastRead collection.LastReadMap   `json:"lastRead"`
	Plans    collection.Plans         `json:"memorization"`
}

// Export serializes all four roots into one versioned envelope.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	b := backup{Folders: s.folders, Pinned: s.pinned, LastRead: s.lastRead, Plans: s.plans}
	s.mu.Unlock()

	return s.backupRec.Export(b)
}

// Import replaces the store state from an exported envelope, migrating
// older versions, then persists everything.
func (s *Store) Import(data []byte) error {
	var b backup
	if err := s.backupRec.Import(data, &b); err != nil {
		return err
	}

	s.mu.Lock()
	if b.Folders != nil {
		s.folders = b.Folders
	}
	if b.Pinned != nil {
		s.pinned = b.Pinned
	}
	if b.LastRead != nil {
		s.lastRead = b.LastRead
	}
	if b.Plans != nil {
		s.plans = b.Plans
	}
	s.foldersRec.Save(s.folders)
	s.pinnedRec.Save(s.pinned)
	s.lastReadRec.Save(s.lastRead)
	s.plansRec.Save(s.plans)
	snap, ls := s.snapshotLocked(OriginExternal)
	s.mu.Unlock()

	notify(snap, ls)
	return nil
}
