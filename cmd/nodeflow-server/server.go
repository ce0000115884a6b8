package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nodeflow/nodeflow/internal/app/dto"
	coregraph "github.com/nodeflow/nodeflow/internal/core/graph"
	"github.com/nodeflow/nodeflow/internal/core/snapshot"
	"github.com/nodeflow/nodeflow/pkg/nodeflow"
	"github.com/nodeflow/nodeflow/pkg/serialization"
	"github.com/nodeflow/nodeflow/pkg/validation"
)

type server struct {
	rt      *nodeflow.Runtime
	store   snapshot.Store
	timeout time.Duration
}

func newServer(rt *nodeflow.Runtime, store snapshot.Store, timeout time.Duration) *server {
	return &server{rt: rt, store: store, timeout: timeout}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "NodeFlow server is running. See /healthz, /graphs, /execute, /metrics, /debug/pprof/")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/metrics", promMetricsHandler)
	mux.HandleFunc("/graphs", s.handleGraphs)
	mux.HandleFunc("/execute", s.handleExecute)
	return mux
}

// handleGraphs saves a serialized graph (POST) or lists stored snapshots (GET).
func (s *server) handleGraphs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.saveGraph(w, r)
	case http.MethodGet:
		s.listGraphs(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *server) saveGraph(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := serialization.Restore(serialization.DefaultSerializer(), data)
	if err != nil {
		http.Error(w, fmt.Sprintf("decoding graph: %v", err), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateGraph(g); err != nil {
		http.Error(w, fmt.Sprintf("invalid graph: %v", err), http.StatusUnprocessableEntity)
		return
	}

	ctx := r.Context()
	if err := s.rt.SaveGraph(ctx, g); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.store.Save(ctx, g); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"graph_id": g.ID})
}

func (s *server) listGraphs(w http.ResponseWriter, r *http.Request) {
	filter := snapshot.Filter{
		Category: coregraph.GraphCategory(r.URL.Query().Get("category")),
	}
	infos, err := s.store.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleExecute runs a previously saved graph.
func (s *server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decoding request: %v", err), http.StatusBadRequest)
		return
	}
	if req.Config.Timeout <= 0 || req.Config.Timeout > s.timeout {
		req.Config.Timeout = s.timeout
	}

	ctx := r.Context()
	if err := s.ensureLoaded(ctx, req.GraphID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, coregraph.ErrGraphNotFound) || errors.Is(err, snapshot.ErrSnapshotNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	resp, err := s.rt.Execute(ctx, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ensureLoaded pulls the graph from the snapshot store into the runtime
// repository when the runtime does not hold it yet.
func (s *server) ensureLoaded(ctx context.Context, graphID string) error {
	if graphID == "" {
		return dto.ErrMissingGraphID
	}
	if _, err := s.rt.Graph(ctx, graphID); err == nil {
		return nil
	}
	g, err := s.store.Load(ctx, graphID)
	if err != nil {
		return err
	}
	return s.rt.SaveGraph(ctx, g)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
