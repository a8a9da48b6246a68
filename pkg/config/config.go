// Package config exposes persisted settings as reactive variables.
//
// A [Store] sits between a [Source] (a YAML file, a bolt database) and the
// variable system. Each setting key becomes a typed variable: reads hit an
// in-memory snapshot, writes persist to the source after they commit, and
// external changes arrive through the update driver's refresh step, so
// they look like ordinary variable updates to observers.
package config

import (
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/updates"
	"github.com/go-drift/reactive/pkg/vars"
)

// Source is a persisted key-value backend.
type Source interface {
	// Load reads all entries. A missing backing store yields an empty
	// map, not an error.
	Load() (map[string]any, error)

	// Store replaces the persisted entries.
	Store(values map[string]any) error

	// Watch starts delivering change notifications, returning a stop
	// function. Sources that cannot watch return a nil stop and nil
	// error; the store then only sees external changes on restart.
	Watch(onChange func()) (stop func(), err error)
}

// Store binds one source to the variable system.
type Store struct {
	driver *updates.Driver
	source Source

	raw     map[string]any
	entries map[string]*entry
	stop    func()
}

type entry struct {
	v vars.AnyVar
	// apply pushes a freshly loaded raw value into the variable.
	apply func(raw any)
	// lastSynced is the last value persisted or loaded for this key,
	// used to tell local writes from refresh echoes.
	lastSynced any
}

// NewStore loads the source and begins watching it. External changes are
// queued as refresh requests on the driver and commit on its next tick.
func NewStore(d *updates.Driver, src Source) (*Store, error) {
	raw, err := src.Load()
	if err != nil {
		return nil, err
	}
	s := &Store{
		driver:  d,
		source:  src,
		raw:     raw,
		entries: map[string]*entry{},
	}
	stop, err := src.Watch(func() {
		d.RequestRefresh(s.Refresh)
	})
	if err != nil {
		return nil, err
	}
	s.stop = stop
	return s, nil
}

// Close stops watching the source. Variables stay readable and writable;
// writes still persist.
func (s *Store) Close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// Refresh reloads the source and queues writes for every changed key.
// The store's watcher calls this through the driver; hosts without a
// watchable source may call it from their own refresh step.
func (s *Store) Refresh() {
	raw, err := s.source.Load()
	if err != nil {
		s.reportErr("config.Store.Refresh", err)
		return
	}
	s.raw = raw
	for key, e := range s.entries {
		if rv, ok := raw[key]; ok {
			e.apply(rv)
		}
	}
}

// persist writes the current value of every registered key to the source.
func (s *Store) persist() {
	values := make(map[string]any, len(s.entries))
	for key, e := range s.entries {
		values[key] = e.v.GetAny()
	}
	if err := s.source.Store(values); err != nil {
		s.reportErr("config.Store.persist", err)
	}
}

func (s *Store) reportErr(op string, err error) {
	errors.Report(&errors.VarError{Op: op, Kind: errors.KindConfig, Err: err})
}

// Value returns the variable for key, creating it on first use with the
// persisted value or def when the key is absent. The variable type is
// fixed by the first call for a key; later calls must use the same T.
func Value[T any](s *Store, key string, def T) vars.Var[T] {
	if e, ok := s.entries[key]; ok {
		return e.v.(vars.Var[T])
	}

	initial := def
	if rv, ok := s.raw[key]; ok {
		decodeAs(rv, &initial)
	}
	v := vars.New(initial)
	e := &entry{v: v, lastSynced: initial}
	e.apply = func(raw any) {
		nv := def
		if !decodeAs(raw, &nv) {
			return
		}
		e.lastSynced = nv
		_ = v.SetIfNE(nv)
	}
	s.entries[key] = e

	// Persist after a local write commits. Values that just arrived from
	// the source pass through unpersisted.
	v.Hook(func(nv T) bool {
		if deepEqualAny(e.lastSynced, nv) {
			return true
		}
		e.lastSynced = nv
		s.persist()
		return true
	}).Perm()

	return v
}

func deepEqualAny(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// decodeAs converts a raw loaded value (whatever the codec produced) into
// the registered type via a YAML round-trip, so numeric and nested types
// land correctly regardless of the source's native decoding.
func decodeAs[T any](raw any, out *T) bool {
	b, err := yaml.Marshal(raw)
	if err != nil {
		return false
	}
	return yaml.Unmarshal(b, out) == nil
}
