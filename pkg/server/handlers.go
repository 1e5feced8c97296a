package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/matzehuels/waypoints/pkg/errors"
	"github.com/matzehuels/waypoints/pkg/store"
	"github.com/matzehuels/waypoints/pkg/waypoint"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDocument serves the library document with a content-hash ETag.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.lib.JSON()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := `"` + store.Hash(data) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(data, '\n'))
}

func (s *Server) handleNames(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	names := s.lib.Names()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	wp, ok := s.lib.Get(name)
	s.mu.Unlock()
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "waypoint %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, wp.ToJSONObject())
}

// waypointRequest is the body of POST /waypoints and PUT /waypoints/{name}.
// Coordinates may be JSON numbers or strings; missing ones are zero.
type waypointRequest struct {
	Name    string
	Address string
	Lat     string
	Lon     string
	Ele     string
}

func decodeWaypointRequest(w http.ResponseWriter, r *http.Request) (waypointRequest, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return waypointRequest{}, errors.Wrap(errors.ErrCodeParse, err, "request body")
	}

	req := waypointRequest{Lat: "0", Lon: "0", Ele: "0"}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{waypoint.KeyName, &req.Name},
		{waypoint.KeyAddress, &req.Address},
		{waypoint.KeyLat, &req.Lat},
		{waypoint.KeyLon, &req.Lon},
		{waypoint.KeyEle, &req.Ele},
	} {
		v, ok := obj[f.key]
		if !ok || v == nil {
			continue
		}
		switch v := v.(type) {
		case string:
			*f.dst = v
		case json.Number:
			*f.dst = v.String()
		default:
			return waypointRequest{}, errors.New(errors.ErrCodeParse, "field %q: expected a string or number, got %T", f.key, v)
		}
	}
	return req, nil
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	req, err := decodeWaypointRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	err = s.lib.AddNew(req.Lat, req.Lon, req.Ele, req.Name, req.Address)
	wp, _ := s.lib.Get(req.Name)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/waypoints/"+url.PathEscape(wp.Name))
	writeJSON(w, http.StatusCreated, wp.ToJSONObject())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeWaypointRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" && req.Name != name {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "body name %q does not match path name %q", req.Name, name))
		return
	}

	s.mu.Lock()
	err = s.lib.Update(req.Lat, req.Lon, req.Ele, name, req.Address)
	wp, _ := s.lib.Get(name)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wp.ToJSONObject())
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	n := s.lib.Remove(name)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no store configured"))
		return
	}

	s.mu.Lock()
	n := s.lib.Len()
	err := s.lib.SaveTo(r.Context(), s.store)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("saved", "store", s.store, "waypoints", n)
	writeJSON(w, http.StatusOK, map[string]any{"saved": n, "store": s.store.String()})
}

// handleRestore reloads from the store. A failed restore leaves the
// library empty, as [library.Library.RestoreFrom] does.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no store configured"))
		return
	}

	s.mu.Lock()
	err := s.lib.RestoreFrom(r.Context(), s.store)
	n := s.lib.Len()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("restored", "store", s.store, "waypoints", n)
	writeJSON(w, http.StatusOK, map[string]any{"restored": n, "store": s.store.String()})
}
