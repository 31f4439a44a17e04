package catalog_test

import (
	"context"
	"net/http"
	"testing"
)

func TestHomeFetchesBothSections(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trending/movie/week":
			w.Write([]byte(`{"results":[{"id":1,"title":"A"}]}`))
		case "/movie/now_playing":
			w.Write([]byte(`{"results":[{"id":2,"title":"B"},{"id":3,"title":"C"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	sections, err := client.Home(context.Background())
	if err != nil {
		t.Fatalf("home returned error: %v", err)
	}
	if len(sections.Trending) != 1 || len(sections.NowPlaying) != 2 {
		t.Fatalf("unexpected sections: trending=%d nowPlaying=%d", len(sections.Trending), len(sections.NowPlaying))
	}
}

func TestHomeFailsWholeCompositeOnOneError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/now_playing" {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"results":[{"id":1,"title":"A"}]}`))
	}))

	sections, err := client.Home(context.Background())
	if err == nil {
		t.Fatalf("expected composite to fail when one section fails")
	}
	if len(sections.Trending) != 0 || len(sections.NowPlaying) != 0 {
		t.Fatalf("expected no partial result, got %+v", sections)
	}
}

func TestMoviePageFailsWithoutRecommendations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/42":
			w.Write([]byte(`{"id":42,"title":"X","runtime":100}`))
		case "/movie/42/recommendations":
			http.Error(w, "down", http.StatusBadGateway)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	if _, err := client.MoviePage(context.Background(), 42); err == nil {
		t.Fatalf("expected movie page to fail when recommendations fail")
	}
}

func TestMoviePageReturnsBoth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/42":
			w.Write([]byte(`{"id":42,"title":"X","runtime":100,"genres":[{"id":28,"name":"Action"}]}`))
		case "/movie/42/recommendations":
			w.Write([]byte(`{"results":[{"id":7,"title":"Y"}]}`))
		}
	}))

	view, err := client.MoviePage(context.Background(), 42)
	if err != nil {
		t.Fatalf("movie page returned error: %v", err)
	}
	if view.Movie.ID != 42 || view.Movie.Runtime != 100 {
		t.Fatalf("unexpected movie: %+v", view.Movie)
	}
	if len(view.Recommendations) != 1 || view.Recommendations[0].ID != 7 {
		t.Fatalf("unexpected recommendations: %+v", view.Recommendations)
	}
}
