package reconcile

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/YasinHossain/quran-app-sub003/internal/collection"
	"github.com/YasinHossain/quran-app-sub003/internal/quranapi"
)

// Fetcher is the slice of the content API the service needs.
type Fetcher interface {
	FetchVerseByKey(ctx context.Context, key string) (*quranapi.Verse, error)
	FetchVerseByID(ctx context.Context, id int) (*quranapi.Verse, error)
	FetchChapterIndex(ctx context.Context) ([]quranapi.Chapter, error)
}

// Applier receives the resolved enrichment. The store routes it through the
// same existence-checked update path as every other edit, so a verse deleted
// while the fetch was in flight merges into nothing.
type Applier interface {
	ApplyEnrichment(verseID string, patch collection.Enrichment)
}

// Service resolves bare verse ids into full verse metadata in the
// background. Errors are swallowed: an unresolved bookmark stays valid and
// displayable with just its id.
type Service struct {
	fetcher Fetcher
	applier Applier

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a reconciliation service.
func New(fetcher Fetcher, applier Applier) *Service {
	return &Service{fetcher: fetcher, applier: applier}
}

// Close marks the service torn down. Fetches that complete afterwards are
// discarded rather than applied.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Service) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Drain waits up to timeout for in-flight reconciliations to finish. A
// short-lived caller drains before tearing the service down so that
// resolutions already underway get a chance to land.
func (s *Service) Drain(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// Reconcile schedules background resolution of verseID and returns
// immediately. The result merges back into whichever collections hold the
// verse. Fire-and-forget: failures are logged, never surfaced.
func (s *Service) Reconcile(ctx context.Context, verseID string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.run(ctx, verseID)
	}()
}

func (s *Service) run(ctx context.Context, verseID string) {
	verse, err := s.resolve(ctx, verseID)
	if err != nil {
		log.Printf("reconcile: verse %s left unresolved: %v", verseID, err)
		return
	}

	patch := collection.Enrichment{
		VerseKey:   verse.VerseKey,
		VerseText:  verse.TextUthmani,
		VerseAPIID: verse.ID,
	}
	if len(verse.Translations) > 0 {
		patch.Translation = verse.Translations[0].Text
	}
	if name, ok := s.surahName(ctx, verse.VerseKey); ok {
		patch.SurahName = name
	}

	if !s.active() {
		return
	}
	s.applier.ApplyEnrichment(verseID, patch)
}

func (s *Service) resolve(ctx context.Context, verseID string) (*quranapi.Verse, error) {
	if IsCompositeKey(verseID) {
		return s.fetcher.FetchVerseByKey(ctx, verseID)
	}

	var absolute int
	if _, err := fmt.Sscanf(verseID, "%d", &absolute); err != nil {
		return nil, fmt.Errorf("unparseable verse id %q", verseID)
	}

	chapters, err := s.fetcher.FetchChapterIndex(ctx)
	if err == nil {
		if key, ok := InferVerseKey(chapters, absolute); ok {
			if verse, err := s.fetcher.FetchVerseByKey(ctx, key); err == nil {
				return verse, nil
			}
			// Inferred key turned out wrong; the raw id is still worth a try.
		}
	}

	return s.fetcher.FetchVerseByID(ctx, absolute)
}

func (s *Service) surahName(ctx context.Context, verseKey string) (string, bool) {
	chapter, _, ok := strings.Cut(verseKey, ":")
	if !ok {
		return "", false
	}
	chapters, err := s.fetcher.FetchChapterIndex(ctx)
	if err != nil {
		return "", false
	}
	for _, c := range chapters {
		if fmt.Sprintf("%d", c.ID) == chapter {
			return c.DisplayName, true
		}
	}
	return "", false
}

// IsCompositeKey reports whether id already looks like a "chapter:verse"
// key rather than an absolute sequential verse id.
func IsCompositeKey(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return true
		}
	}
	return false
}

// InferVerseKey maps an absolute sequential verse id onto a
// "chapter:verse" key by walking chapters in ascending id order and
// subtracting each chapter's verse count until the remainder fits.
func InferVerseKey(chapters []quranapi.Chapter, absolute int) (string, bool) {
	if absolute <= 0 {
		return "", false
	}
	ordered := make([]quranapi.Chapter, len(chapters))
	copy(ordered, chapters)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	remainder := absolute
	for _, c := range ordered {
		if remainder <= c.VersesCount {
			return fmt.Sprintf("%d:%d", c.ID, remainder), true
		}
		remainder -= c.VersesCount
	}
	return "", false
}
