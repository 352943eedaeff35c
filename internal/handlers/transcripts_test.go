package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"rupped-negotiator/internal/storage"
)

func newTranscriptRepo(t *testing.T) *storage.TranscriptRepo {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	return storage.NewTranscriptRepo(db)
}

func TestTranscriptsHandler_ServeHTTP(t *testing.T) {
	repo := newTranscriptRepo(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, msg := range []string{"$50", "$70", "$90"} {
		rec := &storage.TranscriptRecord{
			ProductID:       "pack-1",
			ProductName:     "Trail Pack",
			ListPrice:       100,
			Mode:            storage.ModeMock,
			CustomerMessage: msg,
			Reply:           "reply " + msg,
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Insert(context.Background(), rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/api/negotiations/{productId}", NewTranscriptsHandler(repo))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantFirst  string
		wantCount  int
	}{
		{name: "all for product", path: "/api/negotiations/pack-1", wantStatus: http.StatusOK, wantFirst: "$90", wantCount: 3},
		{name: "limited", path: "/api/negotiations/pack-1?limit=1", wantStatus: http.StatusOK, wantFirst: "$90", wantCount: 1},
		{name: "unknown product", path: "/api/negotiations/none", wantStatus: http.StatusOK, wantCount: 0},
		{name: "bad limit", path: "/api/negotiations/pack-1?limit=zero", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp []TranscriptResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("ServeHTTP() invalid JSON: %v", err)
			}
			if len(resp) != tt.wantCount {
				t.Fatalf("ServeHTTP() returned %d transcripts, want %d", len(resp), tt.wantCount)
			}
			if tt.wantCount > 0 && resp[0].CustomerMessage != tt.wantFirst {
				t.Errorf("ServeHTTP() first = %v, want %v", resp[0].CustomerMessage, tt.wantFirst)
			}
		})
	}
}
