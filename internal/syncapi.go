package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SyncAPI is the file-backed read/write surface consumed by the bot process.
// Each collection lives in its own pretty-printed JSON document under the
// data directory, and every write replaces the whole document.
//
// This is a different physical store than the panel-local Store: the two are
// deliberately not reconciled. A deployment must pick one as its source of
// truth; mixing them loses writes silently.
type SyncAPI struct {
	dataDir string
	queue   *WriteQueue
}

// NewSyncAPI creates the API over the given data directory. The directory is
// created on demand, not here.
func NewSyncAPI(dataDir string) *SyncAPI {
	return &SyncAPI{
		dataDir: dataDir,
		queue:   NewWriteQueue(4),
	}
}

// ServeHTTP handles GET /api/data?type=... and POST /api/data.
func (a *SyncAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.New().String()

	switch r.Method {
	case http.MethodGet:
		a.handleGet(w, r, reqID)
	case http.MethodPost:
		a.handlePost(w, r, reqID)
	default:
		respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

func (a *SyncAPI) handleGet(w http.ResponseWriter, r *http.Request, reqID string) {
	typ := Collection(r.URL.Query().Get("type"))
	if typ == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing type parameter"})
		return
	}
	if !typ.Valid() {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid type"})
		return
	}

	data, err := a.Read(typ)
	if err != nil {
		// Read never fails on absent or malformed documents; this is an IO
		// level problem. Fall back to the collection default anyway.
		slog.Error("sync read failed", "req", reqID, "type", typ, "err", err)
		data = collectionDefault(typ)
	}
	respondJSON(w, http.StatusOK, data)
}

func (a *SyncAPI) handlePost(w http.ResponseWriter, r *http.Request, reqID string) {
	var body struct {
		Type Collection      `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if body.Type == "" || len(body.Data) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing type or data"})
		return
	}
	if !body.Type.Valid() {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid type"})
		return
	}

	if err := a.Write(r.Context(), body.Type, body.Data); err != nil {
		slog.Error("sync write failed", "req", reqID, "type", body.Type, "err", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Write failed"})
		return
	}

	slog.Info("sync write", "req", reqID, "type", body.Type, "bytes", len(body.Data))
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Read returns the stored document for the collection, or the collection
// default when the document is absent or unparsable.
func (a *SyncAPI) Read(typ Collection) (json.RawMessage, error) {
	raw, err := os.ReadFile(a.docPath(typ))
	if err != nil {
		if os.IsNotExist(err) {
			return collectionDefault(typ), nil
		}
		return nil, fmt.Errorf("read %s: %w", typ, err)
	}
	if !json.Valid(raw) {
		return collectionDefault(typ), nil
	}
	// A literal null document (a caller wrote {"data": null}) reads as the
	// collection default, like any other empty document.
	if string(bytes.TrimSpace(raw)) == "null" {
		return collectionDefault(typ), nil
	}
	return raw, nil
}

// Write validates nothing about the payload beyond it being JSON; it fully
// replaces the collection's document.
func (a *SyncAPI) Write(ctx context.Context, typ Collection, data json.RawMessage) error {
	return a.queue.Do(ctx, typ, func() error {
		if err := os.MkdirAll(a.dataDir, 0755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
		pretty, err := json.MarshalIndent(json.RawMessage(data), "", "  ")
		if err != nil {
			return fmt.Errorf("indent %s: %w", typ, err)
		}
		if err := os.WriteFile(a.docPath(typ), pretty, 0644); err != nil {
			return fmt.Errorf("write %s: %w", typ, err)
		}
		return nil
	})
}

func (a *SyncAPI) docPath(typ Collection) string {
	return filepath.Join(a.dataDir, string(typ)+".json")
}

func collectionDefault(typ Collection) json.RawMessage {
	if typ == CollectionSettings {
		return json.RawMessage("{}")
	}
	return json.RawMessage("[]")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}
