// Package server exposes the decoder and the catalog over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"osuparse/catalog"
	"osuparse/dotosu"
)

// Largest accepted .osu upload. Ranked maps stay well under a megabyte.
const maxBodyBytes = 16 << 20

type server struct {
	cat *catalog.Catalog
}

// New returns the router wrapped in CORS handling for origins. cat may be nil,
// in which case catalog routes answer 503.
func New(cat *catalog.Catalog, origins []string) http.Handler {
	s := &server{cat: cat}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/decode", s.handleDecode).Methods(http.MethodPost)
	router.HandleFunc("/beatmaps/{id:[0-9]+}", s.handleBeatmap).Methods(http.MethodGet)
	router.HandleFunc("/failures", s.handleFailures).Methods(http.MethodGet)
	router.Use(logRequests)

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, ErrorResponse{Message: err.Error()})
		return
	}

	b, err := dotosu.DecodeString(string(body))
	if err != nil {
		var de *dotosu.DecodeError
		if errors.As(err, &de) {
			writeJSON(w, http.StatusUnprocessableEntity, decodeErrorResponse(de))
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, Describe(b))
}

func (s *server) handleBeatmap(w http.ResponseWriter, r *http.Request) {
	if s.cat == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Message: "no catalog configured"})
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "bad beatmap id"})
		return
	}

	rec, err := s.cat.Get(id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: err.Error()})
		return
	}
	if err != nil {
		log.Error("catalog lookup failed", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "catalog lookup failed"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleFailures(w http.ResponseWriter, r *http.Request) {
	if s.cat == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Message: "no catalog configured"})
		return
	}
	failures, err := s.cat.Failures()
	if err != nil {
		log.Error("listing failures failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "catalog lookup failed"})
		return
	}
	if failures == nil {
		failures = []catalog.Failure{}
	}
	writeJSON(w, http.StatusOK, failures)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("writing response", "err", err)
	}
}
