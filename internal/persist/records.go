package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultDebounce is how long a save is deferred so that rapid edits
// coalesce into one physical write.
const DefaultDebounce = 300 * time.Millisecond

// ErrBadImport is returned when an imported snapshot cannot be parsed.
var ErrBadImport = errors.New("import data is not a valid snapshot envelope")

// MigrateFunc converts the data payload of an older (or unknown) schema
// version to the current shape. It receives the stored version tag and the
// raw payload and returns the migrated payload.
type MigrateFunc func(version string, data json.RawMessage) (json.RawMessage, error)

// Options configures a Records store for one key-space.
type Options struct {
	Key     string
	Version string
	Delay   time.Duration // zero means DefaultDebounce
	Migrate MigrateFunc   // nil means unknown versions fall back to defaults
}

// Records persists one versioned snapshot per key-space on top of an
// Adapter. Saves are debounced and coalesce to the latest snapshot; loads
// never fail — storage trouble degrades to defaults so the application
// always starts.
type Records struct {
	mu      sync.Mutex
	adapter Adapter
	opts    Options
	timer   *time.Timer
	pending []byte
}

type record struct {
	Version string          `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Envelope is the export/import wire shape.
type Envelope struct {
	Data       json.RawMessage `json:"data"`
	ExportedAt time.Time       `json:"exportedAt"`
	Version    string          `json:"version"`
}

// NewRecords creates a Records store over adapter.
func NewRecords(adapter Adapter, opts Options) *Records {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDebounce
	}
	return &Records{adapter: adapter, opts: opts}
}

// Load reads the stored record into dst, which the caller pre-initializes to
// the built-in defaults. A missing record, corrupt JSON, or failed migration
// leaves dst untouched; corrupt records are cleared so the next run starts
// clean. Load never returns an error for storage trouble.
func (r *Records) Load(dst any) {
	raw, err := r.adapter.ReadRaw(r.opts.Key)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("persist: read %q failed, using defaults: %v", r.opts.Key, err)
		return
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Printf("persist: corrupt record %q, resetting: %v", r.opts.Key, err)
		r.clear()
		return
	}

	data := rec.Data
	if rec.Version != r.opts.Version {
		data, err = r.runMigration(rec.Version, data)
		if err != nil {
			log.Printf("persist: migrating %q from version %q failed, resetting: %v", r.opts.Key, rec.Version, err)
			r.clear()
			return
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("persist: corrupt payload in %q, resetting: %v", r.opts.Key, err)
		r.clear()
	}
}

func (r *Records) runMigration(version string, data json.RawMessage) (json.RawMessage, error) {
	if r.opts.Migrate == nil {
		return nil, fmt.Errorf("no migration from version %q", version)
	}
	return r.opts.Migrate(version, data)
}

// Save schedules a debounced write of snapshot tagged with the current
// schema version. Saves within the window replace the pending payload, so
// the eventual write always carries the latest snapshot.
func (r *Records) Save(snapshot any) {
	payload, err := r.encode(snapshot)
	if err != nil {
		log.Printf("persist: marshal for %q failed, skipping save: %v", r.opts.Key, err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = payload
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.opts.Delay, r.fire)
}

func (r *Records) encode(snapshot any) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record{Version: r.opts.Version, Data: data})
}

// fire performs the physical write. It holds the lock across the adapter
// call so a concurrent Reset cannot slip between taking the payload and the
// write landing; a reset either waits for the write (and then clears it) or
// nils the payload first.
func (r *Records) fire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload := r.pending
	r.pending = nil
	if payload == nil {
		// Reset (or an earlier fire) got here first.
		return
	}
	if err := r.adapter.WriteRaw(r.opts.Key, string(payload)); err != nil {
		log.Printf("persist: write %q failed, continuing in memory: %v", r.opts.Key, err)
	}
}

// Flush writes any pending save immediately. Used at shutdown and by tests
// that need a deterministic write point.
func (r *Records) Flush() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	r.fire()
}

// Reset cancels any pending write and clears the stored record. The pending
// write is dropped first so it cannot resurrect data after the reset.
func (r *Records) Reset() {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = nil
	r.mu.Unlock()

	r.clear()
}

func (r *Records) clear() {
	if err := r.adapter.RemoveRaw(r.opts.Key); err != nil {
		log.Printf("persist: clear %q failed: %v", r.opts.Key, err)
	}
}

// Export serializes snapshot into a versioned envelope.
func (r *Records) Export(snapshot any) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}
	return json.MarshalIndent(Envelope{
		Data:       data,
		ExportedAt: time.Now().UTC(),
		Version:    r.opts.Version,
	}, "", "  ")
}

// Import parses an envelope into dst, re-running migration when the envelope
// carries an older version, and schedules a normal save of the result.
// Unlike storage errors, a malformed import is surfaced to the caller.
func (r *Records) Import(data []byte, dst any) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Data == nil {
		return ErrBadImport
	}

	payload := env.Data
	if env.Version != r.opts.Version {
		migrated, err := r.runMigration(env.Version, payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadImport, err)
		}
		payload = migrated
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadImport, err)
	}

	r.Save(dst)
	return nil
}
