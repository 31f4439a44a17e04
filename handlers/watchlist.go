package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"reelist/models"
	"reelist/services/watchlist"
)

// WatchlistHandler serves the authenticated watchlist endpoints. The store
// backend (SQL or local files) is chosen at startup; the handler only sees
// the interface.
type WatchlistHandler struct {
	store watchlist.Store
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(store watchlist.Store) *WatchlistHandler {
	return &WatchlistHandler{store: store}
}

// Register attaches the watchlist routes to the (auth-protected) router.
func (h *WatchlistHandler) Register(r *mux.Router) {
	r.HandleFunc("/watchlist", h.List).Methods(http.MethodGet)
	r.HandleFunc("/watchlist", h.Add).Methods(http.MethodPost)
	r.HandleFunc("/watchlist", h.Clear).Methods(http.MethodDelete)
	r.HandleFunc("/watchlist/{movieId:[0-9]+}", h.Contains).Methods(http.MethodGet)
	r.HandleFunc("/watchlist/{movieId:[0-9]+}", h.Remove).Methods(http.MethodDelete)
}

// List returns every movie snapshot the user has saved.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	movies, err := h.store.Get(r.Context(), userID)
	if err != nil {
		slog.Error("watchlist read failed", "user", userID, "err", err)
		jsonError(w, "Failed to load watchlist", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"movies": movies}, http.StatusOK)
}

// Add saves a movie snapshot. Adding a movie that is already saved is a
// no-op and still reports success.
// POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if movie.ID <= 0 {
		jsonError(w, "Movie id is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Add(r.Context(), userID, movie); err != nil {
		slog.Error("watchlist add failed", "user", userID, "movie", movie.ID, "err", err)
		jsonError(w, "Failed to save movie", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"saved": true, "id": movie.ID}, http.StatusCreated)
}

// Contains reports whether one movie is saved.
// GET /api/watchlist/{movieId}
func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	movieID, _ := strconv.Atoi(mux.Vars(r)["movieId"])
	present, err := h.store.Contains(r.Context(), userID, movieID)
	if err != nil {
		slog.Error("watchlist lookup failed", "user", userID, "movie", movieID, "err", err)
		jsonError(w, "Failed to check watchlist", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"id": movieID, "present": present}, http.StatusOK)
}

// Remove deletes a saved movie. Removing a movie that is not saved is a
// no-op and still reports success.
// DELETE /api/watchlist/{movieId}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	movieID, _ := strconv.Atoi(mux.Vars(r)["movieId"])
	if err := h.store.Remove(r.Context(), userID, movieID); err != nil {
		slog.Error("watchlist remove failed", "user", userID, "movie", movieID, "err", err)
		jsonError(w, "Failed to remove movie", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"removed": true, "id": movieID}, http.StatusOK)
}

// Clear deletes every saved movie for the user.
// DELETE /api/watchlist
func (h *WatchlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		jsonError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.store.Clear(r.Context(), userID); err != nil {
		slog.Error("watchlist clear failed", "user", userID, "err", err)
		jsonError(w, "Failed to clear watchlist", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{"cleared": true}, http.StatusOK)
}
