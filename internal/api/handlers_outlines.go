package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docoutline/internal/pathstore"
)

const defaultListLimit = 200

func (s *Server) handleLatencyStats(w http.ResponseWriter, r *http.Request) {
	stats := s.orchestrator.Processor().Stats()
	if stats == nil {
		jsonError(w, "latency stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"latency":     stats.Snapshot(),
	})
}

// handleListOutlines lists the document IDs held by the result sink.
func (s *Server) handleListOutlines(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "outline storage is not configured", http.StatusServiceUnavailable)
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ids, err := s.store.ListOutlineIDs(r.Context(), limit)
	if err != nil {
		s.log.Error("list outlines failed", "error", err)
		jsonError(w, "failed to list outlines: "+err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"doc_ids": ids})
}

// handleGetOutline returns one stored outline.
func (s *Server) handleGetOutline(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "outline storage is not configured", http.StatusServiceUnavailable)
		return
	}

	docID := chi.URLParam(r, "docID")
	if !pathstore.ValidDocID(docID) {
		jsonError(w, "invalid doc_id", http.StatusBadRequest)
		return
	}
	out, err := s.store.GetOutline(r.Context(), docID)
	if err != nil {
		s.log.Error("get outline failed", "doc_id", docID, "error", err)
		jsonError(w, "failed to read outline: "+err.Error(), http.StatusBadGateway)
		return
	}
	if out == nil {
		jsonError(w, "outline not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
