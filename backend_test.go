package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
)

// fakeAPI is an in-memory PicsFeed server. Votes update the counts it serves.
type fakeAPI struct {
	mu           sync.Mutex
	images       []Image
	rawImages    string
	imagesStatus int
	voteStatus   int
	exportStatus int
	exportBody   string
	votes        []voteRequest
	requestIDs   []string

	imagesHits atomic.Int32
	voteHits   atomic.Int32
	exportHits atomic.Int32
}

func newFakeAPI(t *testing.T, images ...Image) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{images: images}

	r := mux.NewRouter()
	r.HandleFunc("/images", api.handleImages).Methods(http.MethodGet)
	r.HandleFunc("/vote", api.handleVote).Methods(http.MethodPost)
	r.HandleFunc("/export", api.handleExport).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"ok"}`)
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api, srv
}

func (api *fakeAPI) handleImages(w http.ResponseWriter, r *http.Request) {
	api.imagesHits.Add(1)
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.imagesStatus != 0 {
		http.Error(w, "unavailable", api.imagesStatus)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if api.rawImages != "" {
		io.WriteString(w, api.rawImages)
		return
	}
	json.NewEncoder(w).Encode(api.images)
}

func (api *fakeAPI) handleVote(w http.ResponseWriter, r *http.Request) {
	api.voteHits.Add(1)
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	api.votes = append(api.votes, req)
	api.requestIDs = append(api.requestIDs, r.Header.Get(requestIDHeader))
	if api.voteStatus != 0 {
		http.Error(w, "vote rejected", api.voteStatus)
		return
	}
	for i := range api.images {
		if api.images[i].ID != req.ImageID {
			continue
		}
		if req.VoteType == Like {
			api.images[i].Likes++
		} else {
			api.images[i].Dislikes++
		}
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, `{"success":true}`)
}

func (api *fakeAPI) handleExport(w http.ResponseWriter, r *http.Request) {
	api.exportHits.Add(1)
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.exportStatus != 0 {
		http.Error(w, "export unavailable", api.exportStatus)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	io.WriteString(w, api.exportBody)
}

func (api *fakeAPI) set(fn func(api *fakeAPI)) {
	api.mu.Lock()
	defer api.mu.Unlock()
	fn(api)
}

func (api *fakeAPI) recordedVotes() []voteRequest {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]voteRequest(nil), api.votes...)
}

func (api *fakeAPI) recordedRequestIDs() []string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]string(nil), api.requestIDs...)
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(srv.URL, srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

// newTestLogger returns a debug logger writing into the returned buffer.
// Only use it from tests that log from a single goroutine.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
