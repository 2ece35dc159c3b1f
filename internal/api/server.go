package api

import (
	"fmt"
	"net/http"
	"strings"
)

// NewServer returns the HTTP handler of the inspection API.
func NewServer(reader Reader) http.Handler {
	threadsHandler := NewThreadsHandler(reader)
	threadHandler := NewThreadHandler(reader)

	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/api/v1/threads", methodGet(threadsHandler.GetThreads))
	mux.HandleFunc("/api/v1/thread/", methodGet(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/thread/")
		if path == "" || path == r.URL.Path {
			http.Error(w, "thread_id is required", http.StatusBadRequest)
			return
		}
		threadHandler.GetThread(w, r)
	}))

	return mux
}

func methodGet(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "chatseed inspection API is running")
}
