// Package state provides thread-safe management of the viewing parameters
// and of the sky snapshots computed from them.
package state

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/catalog"
	"github.com/litescript/ls-sky/internal/skymath"
	"github.com/litescript/ls-sky/internal/sky"
)

// FOVInterval bounds the field of view, in degrees.
var FOVInterval = skymath.MustClosed(30, 150)

// Params are the inputs of one sky snapshot.
type Params struct {
	When   time.Time
	Where  astro.Geographic
	Center astro.Horizontal
	FOVDeg float64
}

// Validate checks the instant and the field of view.
func (p Params) Validate() error {
	if err := sky.CheckInstant(p.When); err != nil {
		return err
	}
	if _, err := FOVInterval.Check(p.FOVDeg); err != nil {
		return fmt.Errorf("field of view: %w", err)
	}
	return nil
}

// cacheKey identifies a snapshot. The field of view only scales the plane
// for display and is not part of it.
type cacheKey struct {
	unixMilli int64
	where     astro.Geographic
	center    astro.Horizontal
}

func keyOf(p Params) cacheKey {
	return cacheKey{unixMilli: p.When.UnixMilli(), where: p.Where, center: p.Center}
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%d/%v/%v", k.unixMilli, k.where, k.center)
}

// EventType represents the kind of state change.
type EventType string

const (
	EventTimeChanged     EventType = "TIME_CHANGED"
	EventLocationChanged EventType = "LOCATION_CHANGED"
	EventViewChanged     EventType = "VIEW_CHANGED"
	EventBuildFailed     EventType = "BUILD_FAILED"
)

// Event records a state change.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail"`
}

// Observer receives snapshot cache statistics. Implementations must be safe
// for concurrent use.
type Observer interface {
	ObserveBuild(d time.Duration, err error)
	ObserveCacheHit()
}

type nopObserver struct{}

func (nopObserver) ObserveBuild(time.Duration, error) {}
func (nopObserver) ObserveCacheHit()                  {}

// Config holds configuration for the state manager.
type Config struct {
	CacheSize int
	MaxEvents int
	Observer  Observer
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		CacheSize: 32,
		MaxEvents: 50,
	}
}

// Manager holds the catalogue and the current viewing parameters, and
// hands out snapshots for them. Snapshots are cached by parameters and
// concurrent requests for the same parameters share one computation.
type Manager struct {
	mu sync.RWMutex

	cat    *catalog.Catalogue
	params Params

	// Snapshot cache, oldest key first.
	cache     map[cacheKey]*sky.ObservedSky
	order     []cacheKey
	cacheSize int
	group     singleflight.Group
	observer  Observer

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// NewManager creates a manager for cat starting at initial.
func NewManager(cat *catalog.Catalogue, initial Params, cfg Config) (*Manager, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	cacheSize := cfg.CacheSize
	if cacheSize <= 0 {
		cacheSize = 32
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Manager{
		cat:       cat,
		params:    initial,
		cache:     make(map[cacheKey]*sky.ObservedSky, cacheSize),
		cacheSize: cacheSize,
		observer:  observer,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}, nil
}

// Catalogue returns the shared star catalogue.
func (m *Manager) Catalogue() *catalog.Catalogue { return m.cat }

// Params returns the current viewing parameters.
func (m *Manager) Params() Params {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params
}

// Set replaces all parameters at once.
func (m *Manager) Set(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = p
	m.addEvent(EventViewChanged, fmt.Sprintf("%v %v fov=%.0f°", p.Where, p.Center, p.FOVDeg))
	return nil
}

// SetTime moves the observation instant.
func (m *Manager) SetTime(t time.Time) error {
	if err := sky.CheckInstant(t); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.When = t
	m.addEvent(EventTimeChanged, t.Format(time.RFC3339))
	return nil
}

// SetLocation moves the observer.
func (m *Manager) SetLocation(g astro.Geographic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.Where = g
	m.addEvent(EventLocationChanged, g.String())
}

// SetCenter changes the projection center.
func (m *Manager) SetCenter(h astro.Horizontal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.Center = h
	m.addEvent(EventViewChanged, h.String())
}

// SetFOV changes the field of view, clipped to FOVInterval.
func (m *Manager) SetFOV(deg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params.FOVDeg = FOVInterval.Clip(deg)
}

// Snapshot returns the sky for the current parameters.
func (m *Manager) Snapshot() (*sky.ObservedSky, error) {
	return m.SkyAt(m.Params())
}

// SkyAt returns the sky for p, from the cache when possible.
func (m *Manager) SkyAt(p Params) (*sky.ObservedSky, error) {
	key := keyOf(p)

	m.mu.RLock()
	s, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		m.observer.ObserveCacheHit()
		return s, nil
	}

	v, err, _ := m.group.Do(key.String(), func() (any, error) {
		start := time.Now()
		s, err := sky.New(p.When, p.Where, astro.NewStereographic(p.Center), m.cat)
		m.observer.ObserveBuild(time.Since(start), err)
		if err != nil {
			m.mu.Lock()
			m.addEvent(EventBuildFailed, err.Error())
			m.mu.Unlock()
			return nil, err
		}
		return m.store(key, s), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sky.ObservedSky), nil
}

// store caches s under key and returns the cached snapshot, which is an
// earlier one if a previous build already stored it.
func (m *Manager) store(key cacheKey, s *sky.ObservedSky) *sky.ObservedSky {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cached, ok := m.cache[key]; ok {
		return cached
	}
	m.cache[key] = s
	m.order = append(m.order, key)
	if len(m.order) > m.cacheSize {
		delete(m.cache, m.order[0])
		m.order = m.order[1:]
	}
	return s
}

// CacheLen returns the number of cached snapshots.
func (m *Manager) CacheLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// addEvent adds an event to the ring buffer. Callers hold m.mu.
func (m *Manager) addEvent(t EventType, detail string) {
	e := Event{Type: t, Timestamp: time.Now(), Detail: detail}
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events, oldest first. It returns nil for
// n <= 0.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
