/*Package preset defines the Preset Store boundary: (camera, slot) ->
captured pose, durable across restarts. It is external per spec.md §1
and §6 — the production implementation is a SQLite-backed store not
built here. This package carries the interface plus an in-memory
reference implementation good enough to drive the Camera Actor and its
tests.

The production schema (reproduced from spec.md §6 for whoever plugs in
the real store):

	Presets(ncam INT, preset INT,
	        pan INT, tilt INT, zoom INT,
	        focusauto BOOL, focus INT,
	        whitebalauto BOOL, temperature INT,
	        PRIMARY KEY(ncam, preset))
*/
package preset

import "sync"

// Preset is an immutable captured pose.
type Preset struct {
	Pan, Tilt, Zoom int64
	FocusAuto       bool
	Focus           int64
	WBAuto          bool
	Temperature     int64
}

// Store is the (camera, slot) -> Preset boundary consumed by the
// Camera Actor's SetPresetCam/RecordPreset/RecoverPreset/ResetPreset
// commands.
type Store interface {
	// Record upserts a preset for (ncam, slot).
	Record(ncam, slot int, p Preset) error
	// Recover reads (ncam, slot). ok is false if no row exists; this
	// is not an error per spec.md §4.1 ("if present").
	Recover(ncam, slot int) (p Preset, ok bool, err error)
	// Clear deletes (ncam, slot), a no-op if absent.
	Clear(ncam, slot int) error
}

// memStore is the in-memory reference Store.
type memStore struct {
	mu   sync.Mutex
	rows map[key]Preset
}

type key struct {
	ncam, slot int
}

// NewMemStore returns a process-local Store. Not durable across
// restarts; stands in for the real SQLite-backed store at dev time.
func NewMemStore() Store {
	return &memStore{rows: make(map[key]Preset)}
}

func (s *memStore) Record(ncam, slot int, p Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key{ncam, slot}] = p
	return nil
}

func (s *memStore) Recover(ncam, slot int) (Preset, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[key{ncam, slot}]
	return p, ok, nil
}

func (s *memStore) Clear(ncam, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key{ncam, slot})
	return nil
}
