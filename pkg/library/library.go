// Package library implements the waypoint library: an ordered, in-memory
// collection of named waypoints with JSON persistence.
//
// # Entries
//
// A [Library] keeps its waypoints in insertion order. That order is used
// by [Library.Names], [Library.Waypoints] and the exported JSON document.
// Names are unique: adding a waypoint whose name is already present fails
// with [errors.ErrCodeDuplicateName].
//
// # Persistence
//
// A library is saved as one JSON object keyed by waypoint name (see
// pkg/io). [Load], [Library.Save] and [Library.Restore] work on a file path;
// [LoadFrom], [Library.SaveTo] and [Library.RestoreFrom] work on any
// [store.Store].
//
// Loading never aborts the caller: when the document cannot be read or
// parsed, the library is left empty and the error describes the problem,
// including the parser's line and column.
//
// # Concurrency
//
// A Library is not safe for concurrent use. Callers that share one across
// goroutines must serialize access, as pkg/server does.
package library

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/waypoints/pkg/errors"
	wio "github.com/matzehuels/waypoints/pkg/io"
	"github.com/matzehuels/waypoints/pkg/observability"
	"github.com/matzehuels/waypoints/pkg/store"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

// DefaultPath is the document file used when an empty path is given.
const DefaultPath = store.DefaultPath

// Library is an ordered collection of uniquely named waypoints.
// The zero value is an empty library ready to use.
type Library struct {
	entries []waypoint.Waypoint
}

// New creates an empty library.
func New() *Library {
	return &Library{}
}

// NewFrom creates a library holding a copy of existing, in the same order.
// It fails if a waypoint is invalid or a name repeats.
func NewFrom(existing []waypoint.Waypoint) (*Library, error) {
	l := New()
	for _, w := range existing {
		if err := l.add(w); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// FromJSON builds a library from a waypoint document.
// On failure the returned library is empty and non-nil.
func FromJSON(data []byte) (*Library, error) {
	l := New()
	wps, err := wio.Parse(data)
	if err != nil {
		return l, err
	}
	return l, l.replace(wps)
}

// Load reads the document at path, or [DefaultPath] when path is empty.
//
// The returned library is never nil. If the file cannot be read, is not
// valid JSON, or holds an invalid or duplicate waypoint, the library is
// empty and the error says why.
func Load(path string) (*Library, error) {
	l := New()
	return l, l.Restore(path)
}

// LoadFrom reads the document held by s. Failures behave as in [Load].
func LoadFrom(ctx context.Context, s store.Store) (*Library, error) {
	l := New()
	return l, l.RestoreFrom(ctx, s)
}

// =============================================================================
// Mutation
// =============================================================================

// Add appends w. It fails without changing the library if w is invalid or
// its name is already present.
func (l *Library) Add(w waypoint.Waypoint) error {
	if err := l.add(w); err != nil {
		return err
	}
	notify(observability.Change{Op: observability.OpAdd, Name: w.Name, Waypoint: &w, Count: 1})
	return nil
}

func (l *Library) add(w waypoint.Waypoint) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if l.index(w.Name) >= 0 {
		return errors.New(errors.ErrCodeDuplicateName, "waypoint %q already exists", w.Name)
	}
	l.entries = append(l.entries, w)
	return nil
}

// AddNew parses the three coordinates as floating-point literals and appends
// a new waypoint. A malformed literal is an [errors.ErrCodeParse] error
// wrapping the *strconv.NumError, and nothing is inserted.
func (l *Library) AddNew(lat, lon, ele, name, address string) error {
	la, lo, el, err := parseCoordinates(lat, lon, ele)
	if err != nil {
		return err
	}
	return l.Add(waypoint.New(la, lo, el, name, address))
}

// Update replaces the address and coordinates of the waypoint called name.
//
// It fails with [errors.ErrCodeNotFound] if no such waypoint exists and with
// [errors.ErrCodeParse] if a coordinate is malformed. On failure the library
// is unchanged.
func (l *Library) Update(lat, lon, ele, name, address string) error {
	la, lo, el, err := parseCoordinates(lat, lon, ele)
	if err != nil {
		return err
	}
	i := l.index(name)
	if i < 0 {
		return errors.New(errors.ErrCodeNotFound, "waypoint %q not found", name)
	}
	w := waypoint.New(la, lo, el, name, address)
	if err := w.Validate(); err != nil {
		return err
	}
	l.entries[i] = w
	notify(observability.Change{Op: observability.OpUpdate, Name: name, Waypoint: &w, Count: 1})
	return nil
}

// Remove deletes every waypoint called name, keeping the order of the rest.
// It returns how many were removed; removing an absent name is not an error.
func (l *Library) Remove(name string) int {
	before := len(l.entries)
	l.entries = slices.DeleteFunc(l.entries, func(w waypoint.Waypoint) bool {
		return w.Name == name
	})
	removed := before - len(l.entries)
	if removed > 0 {
		notify(observability.Change{Op: observability.OpRemove, Name: name, Count: removed})
	}
	return removed
}

// Clear removes all waypoints.
func (l *Library) Clear() {
	n := len(l.entries)
	l.entries = nil
	if n > 0 {
		notify(observability.Change{Op: observability.OpClear, Count: n})
	}
}

// =============================================================================
// Query
// =============================================================================

// Get returns a copy of the first waypoint called name.
// Changing the copy does not change the library; use [Library.Update].
func (l *Library) Get(name string) (waypoint.Waypoint, bool) {
	if i := l.index(name); i >= 0 {
		return l.entries[i], true
	}
	return waypoint.Waypoint{}, false
}

// Names returns the name of every waypoint in entry order.
// Each call builds a new slice.
func (l *Library) Names() []string {
	names := make([]string, len(l.entries))
	for i, w := range l.entries {
		names[i] = w.Name
	}
	return names
}

// Waypoints returns a copy of all entries in order.
func (l *Library) Waypoints() []waypoint.Waypoint {
	return slices.Clone(l.entries)
}

// Len returns the number of waypoints.
func (l *Library) Len() int {
	return len(l.entries)
}

func (l *Library) index(name string) int {
	return slices.IndexFunc(l.entries, func(w waypoint.Waypoint) bool {
		return w.Name == name
	})
}

// =============================================================================
// Serialization
// =============================================================================

// JSON returns the library as one JSON object keyed by waypoint name,
// indented for humans, in entry order.
func (l *Library) JSON() ([]byte, error) {
	return wio.Marshal(l.entries)
}

// MarshalJSON implements json.Marshaler.
func (l *Library) MarshalJSON() ([]byte, error) {
	return l.JSON()
}

// UnmarshalJSON implements json.Unmarshaler. It replaces the content of
// the library; on failure the library is left empty.
func (l *Library) UnmarshalJSON(data []byte) error {
	l.entries = nil
	wps, err := wio.Parse(data)
	if err != nil {
		return err
	}
	return l.replace(wps)
}

// String returns the JSON document, or an error description if the
// library cannot be encoded.
func (l *Library) String() string {
	data, err := l.JSON()
	if err != nil {
		return fmt.Sprintf("<invalid library: %v>", err)
	}
	return string(data)
}

// =============================================================================
// Persistence
// =============================================================================

// Save writes the JSON document to path, or [DefaultPath] when path is
// empty, replacing any previous content. A failure to create or write the
// file is an [errors.ErrCodeIO] error.
func (l *Library) Save(path string) error {
	path, err := documentPath(path)
	if err != nil {
		return err
	}
	return wio.ExportJSON(l.entries, path)
}

// SaveTo writes the JSON document to s.
func (l *Library) SaveTo(ctx context.Context, s store.Store) error {
	data, err := l.JSON()
	if err != nil {
		return err
	}
	if err := s.Save(ctx, append(data, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "save to %s", s)
	}
	return nil
}

// Restore empties the library and reloads it from path, or [DefaultPath]
// when path is empty. If loading fails the library stays empty; the
// previous content is not kept.
func (l *Library) Restore(path string) error {
	l.entries = nil
	path, err := documentPath(path)
	if err != nil {
		return err
	}
	wps, err := wio.ImportJSON(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return l.replace(wps)
}

// RestoreFrom empties the library and reloads it from s. Failures behave
// as in [Library.Restore]. A store holding no document yet is an
// [errors.ErrCodeIO] error wrapping [store.ErrNotFound].
func (l *Library) RestoreFrom(ctx context.Context, s store.Store) error {
	l.entries = nil
	data, err := s.Load(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "load from %s", s)
	}
	wps, err := wio.Parse(data)
	if err != nil {
		return fmt.Errorf("load from %s: %w", s, err)
	}
	return l.replace(wps)
}

// replace swaps in wps after checking every waypoint; on failure the
// library is left empty.
func (l *Library) replace(wps []waypoint.Waypoint) error {
	next, err := NewFrom(wps)
	if err != nil {
		l.entries = nil
		return err
	}
	l.entries = next.entries
	notify(observability.Change{Op: observability.OpRestore, Count: len(l.entries)})
	return nil
}

func documentPath(path string) (string, error) {
	if path == "" {
		return DefaultPath, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// parseCoordinates parses latitude, longitude and elevation literals.
// Surrounding whitespace is ignored.
func parseCoordinates(lat, lon, ele string) (float64, float64, float64, error) {
	var out [3]float64
	for i, f := range [...]struct{ label, text string }{
		{"latitude", lat},
		{"longitude", lon},
		{"elevation", ele},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.text), 64)
		if err != nil {
			var numErr *strconv.NumError
			if stderrors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
				return 0, 0, 0, errors.Wrap(errors.ErrCodeParse, err, "%s %q out of range", f.label, f.text)
			}
			return 0, 0, 0, errors.Wrap(errors.ErrCodeParse, err, "invalid %s %q", f.label, f.text)
		}
		out[i] = v
	}
	return out[0], out[1], out[2], nil
}

func notify(c observability.Change) {
	observability.Library().OnChange(c)
}
