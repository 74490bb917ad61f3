// Package httpapi exposes a store over a small JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"kvstore/internal/logger"
	"kvstore/internal/store"
)

// SetRequest is the JSON payload for the /set endpoint.
type SetRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DelRequest is the JSON payload for the /del endpoint.
type DelRequest struct {
	Key string `json:"key"`
}

type api struct {
	store *store.Store
	log   *slog.Logger
}

// New returns the HTTP handler serving the store API:
// GET / (health), POST /set, GET /get?key=, POST /del, GET /stats,
// POST /save.
func New(s *store.Store, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	a := &api{store: s, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/", a.health)
	mux.HandleFunc("/set", a.set)
	mux.HandleFunc("/get", a.get)
	mux.HandleFunc("/del", a.del)
	mux.HandleFunc("/stats", a.stats)
	mux.HandleFunc("/save", a.save)
	return mux
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	fmt.Fprintln(w, "kvstore server running")
}

// set stores a key-value pair.
// Expected JSON body: {"key": "string", "value": "string"}
func (a *api) set(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		http.Error(w, "Missing key", http.StatusBadRequest)
		return
	}

	a.store.Put(req.Key, []byte(req.Value))
	fmt.Fprintln(w, "OK")
}

// get retrieves a value by key.
// Expected query parameter: ?key=<key>
func (a *api) get(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key", http.StatusBadRequest)
		return
	}

	value, ok := a.store.Get(key)
	if !ok {
		http.Error(w, "Key not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(value)
}

// del removes a key.
// Expected JSON body: {"key": "string"}
func (a *api) del(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Key == "" {
		http.Error(w, "Missing key", http.StatusBadRequest)
		return
	}

	if a.store.Remove(req.Key) {
		fmt.Fprintln(w, "1")
	} else {
		fmt.Fprintln(w, "0")
	}
}

// stats reports the store's operation counters as JSON.
func (a *api) stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	resp := struct {
		store.MetricsSnapshot
		Size     int `json:"size"`
		Capacity int `json:"capacity"`
	}{
		MetricsSnapshot: a.store.Metrics(),
		Size:            a.store.Len(),
		Capacity:        a.store.Capacity(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.log.Error("encode stats response", logger.Error(err))
	}
}

// save triggers an on-demand snapshot.
func (a *api) save(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := a.store.SaveSnapshot(); err != nil {
		a.log.Error("snapshot save failed", logger.Error(err))
		http.Error(w, "Snapshot failed", http.StatusInternalServerError)
		return
	}
	fmt.Fprintln(w, "Snapshot saved")
}
