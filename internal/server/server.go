// Package server exposes sky snapshots over a small JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-sky/internal/astro"
	"github.com/litescript/ls-sky/internal/body"
	"github.com/litescript/ls-sky/internal/logging"
	"github.com/litescript/ls-sky/internal/skymath"
	"github.com/litescript/ls-sky/internal/sky"
	"github.com/litescript/ls-sky/internal/state"
)

// DefaultStarMagnitude is the faintest star listed by /v1/sky unless the
// request asks otherwise.
const DefaultStarMagnitude = 2.5

// Handler wires the sky endpoints to a state manager.
type Handler struct {
	mgr     *state.Manager
	logger  *logging.Logger
	metrics *Metrics
}

// New constructs a handler with its dependencies.
func New(mgr *state.Manager, logger *logging.Logger, metrics *Metrics) *Handler {
	return &Handler{mgr: mgr, logger: logger, metrics: metrics}
}

// Register mounts the sky endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Get("/v1/sky", h.HandleSky)
	r.Get("/v1/closest", h.HandleClosest)
	r.Get("/v1/events", h.HandleEvents)
}

// NewRouter builds the full HTTP handler, including /metrics served from
// gatherer.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.Register(r)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"stars":  h.mgr.Catalogue().Len(),
	})
}

// HandleSky handles GET /v1/sky.
func (h *Handler) HandleSky(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer h.metrics.ObserveRequest("sky", start)

	s, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	maxMag := DefaultStarMagnitude
	if v := r.URL.Query().Get("mag"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("mag: %w", err))
			return
		}
		maxMag = m
	}

	writeJSON(w, http.StatusOK, newSkyResponse(s, maxMag))
}

// HandleClosest handles GET /v1/closest.
func (h *Handler) HandleClosest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer h.metrics.ObserveRequest("closest", start)

	q := r.URL.Query()
	var x, y, maxDistance float64
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"x", &x}, {"y", &y}, {"max", &maxDistance}} {
		v, err := strconv.ParseFloat(q.Get(f.name), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %w", f.name, err))
			return
		}
		*f.dst = v
	}

	s, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	p := astro.Cartesian{X: x, Y: y}
	obj, found := s.ObjectClosestTo(p, maxDistance)
	h.metrics.ObserveClosest(found)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Errorf("no object within %g of %v", maxDistance, p))
		return
	}
	writeJSON(w, http.StatusOK, newObjectJSON(s, obj, planePosition(s, obj)))
}

// HandleEvents handles GET /v1/events.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("n: invalid count %q", v))
			return
		}
		n = parsed
	}
	events := h.mgr.RecentEvents(n)
	if events == nil {
		events = []state.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// snapshot resolves the request parameters over the manager's current ones
// and returns the matching sky. It writes the error response itself.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*sky.ObservedSky, bool) {
	p, err := paramsFrom(r, h.mgr.Params())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	s, err := h.mgr.SkyAt(p)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sky.ErrUnsupportedInstant) {
			status = http.StatusBadRequest
		} else {
			h.logger.Error("snapshot failed: %v", err)
		}
		writeError(w, status, err)
		return nil, false
	}
	h.logger.Debug("sky at %s from %v", p.When.Format(time.RFC3339), p.Where)
	return s, true
}

func paramsFrom(r *http.Request, p state.Params) (state.Params, error) {
	q := r.URL.Query()

	if v := q.Get("time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return p, fmt.Errorf("time: %w", err)
		}
		p.When = t
	}

	lon, lat := p.Where.LonDeg(), p.Where.LatDeg()
	az, alt := p.Center.AzDeg(), p.Center.AltDeg()
	for _, f := range []struct {
		name string
		dst  *float64
	}{{"lon", &lon}, {"lat", &lat}, {"az", &az}, {"alt", &alt}} {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = parsed
	}

	where, err := astro.NewGeographicDeg(lon, lat)
	if err != nil {
		return p, fmt.Errorf("observer: %w", err)
	}
	center, err := astro.NewHorizontalDeg(az, alt)
	if err != nil {
		return p, fmt.Errorf("center: %w", err)
	}
	p.Where, p.Center = where, center
	return p, nil
}

type objectJSON struct {
	Kind           string   `json:"kind"`
	Name           string   `json:"name"`
	Info           string   `json:"info"`
	RAHr           float64  `json:"ra_hr"`
	DecDeg         float64  `json:"dec_deg"`
	AzDeg          float64  `json:"az_deg"`
	AltDeg         float64  `json:"alt_deg"`
	X              float64  `json:"x"`
	Y              float64  `json:"y"`
	AngularSizeDeg float64  `json:"angular_size_deg"`
	Magnitude      float64  `json:"magnitude"`
	Phase          *float64 `json:"phase,omitempty"`
	Hipparcos      int      `json:"hip,omitempty"`
}

type skyResponse struct {
	Time      time.Time    `json:"time"`
	LonDeg    float64      `json:"lon_deg"`
	LatDeg    float64      `json:"lat_deg"`
	CenterAz  float64      `json:"center_az_deg"`
	CenterAlt float64      `json:"center_alt_deg"`
	Sun       objectJSON   `json:"sun"`
	Moon      objectJSON   `json:"moon"`
	Planets   []objectJSON `json:"planets"`
	StarCount int          `json:"star_count"`
	Stars     []objectJSON `json:"stars"`
}

func newObjectJSON(s *sky.ObservedSky, o body.Object, pos astro.Cartesian) objectJSON {
	hor := s.Horizontal(o)
	out := objectJSON{
		Kind:           o.Kind().String(),
		Name:           o.Name(),
		Info:           o.Info(),
		RAHr:           o.Equatorial().RAHr(),
		DecDeg:         o.Equatorial().DecDeg(),
		AzDeg:          hor.AzDeg(),
		AltDeg:         hor.AltDeg(),
		X:              pos.X,
		Y:              pos.Y,
		AngularSizeDeg: skymath.ToDeg(o.AngularSize()),
		Magnitude:      o.Magnitude(),
	}
	switch v := o.(type) {
	case body.Moon:
		phase := v.Phase()
		out.Phase = &phase
	case body.Star:
		out.Hipparcos = v.HipparcosID()
	}
	return out
}

// planePosition finds the plane position of o in s. Objects not part of s
// are projected directly.
func planePosition(s *sky.ObservedSky, o body.Object) astro.Cartesian {
	switch v := o.(type) {
	case body.Sun:
		return s.SunPosition()
	case body.Moon:
		return s.MoonPosition()
	case body.Planet:
		for i, p := range s.Planets() {
			if p.Name() == v.Name() {
				return s.PlanetPosition(i)
			}
		}
	case body.Star:
		cat := s.Catalogue()
		for i := 0; i < cat.Len(); i++ {
			if cat.Star(i) == v {
				return s.StarPosition(i)
			}
		}
	}
	return s.Projection().Apply(s.Horizontal(o))
}

func newSkyResponse(s *sky.ObservedSky, maxMag float64) skyResponse {
	resp := skyResponse{
		Time:      s.When().UTC(),
		LonDeg:    s.Where().LonDeg(),
		LatDeg:    s.Where().LatDeg(),
		CenterAz:  s.Projection().Center().AzDeg(),
		CenterAlt: s.Projection().Center().AltDeg(),
		Sun:       newObjectJSON(s, s.Sun(), s.SunPosition()),
		Moon:      newObjectJSON(s, s.Moon(), s.MoonPosition()),
		StarCount: s.Catalogue().Len(),
		Stars:     []objectJSON{},
	}
	for i, p := range s.Planets() {
		resp.Planets = append(resp.Planets, newObjectJSON(s, p, s.PlanetPosition(i)))
	}
	cat := s.Catalogue()
	for i := 0; i < cat.Len(); i++ {
		if st := cat.Star(i); st.Magnitude() <= maxMag {
			resp.Stars = append(resp.Stars, newObjectJSON(s, st, s.StarPosition(i)))
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
