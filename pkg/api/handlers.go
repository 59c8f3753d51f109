package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	sum, err := s.store.GetSummary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, statusFrom(sum))
}

func (s *Server) getNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.store.GetNodes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	hostname := mux.Vars(r)["hostname"]

	detail, err := s.store.GetNodeDetail(r.Context(), hostname, s.now().Add(-defaultHours*time.Hour))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) getMetricHistory(w http.ResponseWriter, r *http.Request) {
	hostname := mux.Vars(r)["hostname"]

	hours, err := intParam(r, "hours", defaultHours, 1, maxHours)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	samples, err := s.store.GetMetricHistory(r.Context(), hostname, s.now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, samples)
}

func (s *Server) getAlerts(w http.ResponseWriter, r *http.Request) {
	resolved, err := boolParam(r, "resolved")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	limit, err := intParam(r, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.store.GetAlerts(r.Context(), resolved, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) resolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, errInvalidID)
		return
	}

	if err := s.store.ResolveAlert(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ResolveResponse{Success: true, ID: id})
}

func (s *Server) getTopology(w http.ResponseWriter, r *http.Request) {
	topo, err := s.store.GetTopology(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, topo)
}
