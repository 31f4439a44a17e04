package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reelist/services/catalog"
)

// MoviesHandler serves the read-only catalog endpoints. Every failure from
// the catalog surfaces as "no data this attempt": the handler reports it
// and the client retries by reloading, never the server.
type MoviesHandler struct {
	catalog *catalog.Client
}

// NewMoviesHandler creates a new movies handler.
func NewMoviesHandler(c *catalog.Client) *MoviesHandler {
	return &MoviesHandler{catalog: c}
}

// Register attaches the catalog routes to the router.
func (h *MoviesHandler) Register(r *mux.Router) {
	r.HandleFunc("/movies/trending", h.Trending).Methods(http.MethodGet)
	r.HandleFunc("/movies/now-playing", h.NowPlaying).Methods(http.MethodGet)
	r.HandleFunc("/movies/home", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/movies/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id:[0-9]+}", h.Details).Methods(http.MethodGet)
	r.HandleFunc("/movies/{id:[0-9]+}/recommendations", h.Recommendations).Methods(http.MethodGet)
}

// Trending returns the weekly trending movies.
// GET /api/movies/trending
func (h *MoviesHandler) Trending(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.Trending(r.Context())
	if err != nil {
		slog.Error("fetch trending failed", "err", err)
		jsonError(w, "Failed to fetch trending movies", http.StatusBadGateway)
		return
	}
	jsonResponse(w, map[string]interface{}{"results": movies}, http.StatusOK)
}

// NowPlaying returns movies currently in theaters.
// GET /api/movies/now-playing
func (h *MoviesHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.NowPlaying(r.Context())
	if err != nil {
		slog.Error("fetch now playing failed", "err", err)
		jsonError(w, "Failed to fetch now playing movies", http.StatusBadGateway)
		return
	}
	jsonResponse(w, map[string]interface{}{"results": movies}, http.StatusOK)
}

// Home returns the trending and now-playing sections together, both or
// neither.
// GET /api/movies/home
func (h *MoviesHandler) Home(w http.ResponseWriter, r *http.Request) {
	sections, err := h.catalog.Home(r.Context())
	if err != nil {
		slog.Error("fetch home sections failed", "err", err)
		jsonError(w, "Failed to fetch home sections", http.StatusBadGateway)
		return
	}
	jsonResponse(w, sections, http.StatusOK)
}

// Search proxies a catalog search, passing the upstream page cursor and
// result totals through untouched.
// GET /api/movies/search?query=...&page=N
func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		jsonError(w, "Missing required parameter: query", http.StatusBadRequest)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			jsonError(w, "Invalid page parameter: "+raw, http.StatusBadRequest)
			return
		}
		page = parsed
	}

	result, err := h.catalog.Search(r.Context(), query, page)
	if err != nil {
		slog.Error("catalog search failed", "err", err)
		jsonError(w, "Search failed", http.StatusBadGateway)
		return
	}
	jsonResponse(w, result, http.StatusOK)
}

// Details returns the detail record and recommendations for one movie,
// both-or-fail so the movie screen never renders half a payload.
// GET /api/movies/{id}
func (h *MoviesHandler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		jsonError(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	view, err := h.catalog.MoviePage(r.Context(), id)
	if err != nil {
		slog.Error("fetch movie page failed", "err", err)
		jsonError(w, "Failed to fetch movie", http.StatusBadGateway)
		return
	}
	jsonResponse(w, view, http.StatusOK)
}

// Recommendations returns the catalog-ranked related movies.
// GET /api/movies/{id}/recommendations
func (h *MoviesHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		jsonError(w, "Invalid movie id", http.StatusBadRequest)
		return
	}

	movies, err := h.catalog.Recommendations(r.Context(), id)
	if err != nil {
		slog.Error("fetch recommendations failed", "err", err)
		jsonError(w, "Failed to fetch recommendations", http.StatusBadGateway)
		return
	}
	jsonResponse(w, map[string]interface{}{"results": movies}, http.StatusOK)
}
