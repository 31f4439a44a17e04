package catalog

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"reelist/models"
)

// HomeSections bundles the lists the landing screen renders together.
type HomeSections struct {
	Trending   []models.Movie `json:"trending"`
	NowPlaying []models.Movie `json:"now_playing"`
}

// MovieView bundles a detail record with its recommendations, the pair the
// movie screen renders together.
type MovieView struct {
	Movie           models.Movie   `json:"movie"`
	Recommendations []models.Movie `json:"recommendations"`
}

// Home fetches the trending and now-playing sections concurrently. There is
// no partial success: if either fetch fails the whole composite fails and
// the caller treats the screen as errored.
func (c *Client) Home(ctx context.Context) (HomeSections, error) {
	var sections HomeSections

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		movies, err := c.Trending(ctx)
		if err != nil {
			return err
		}
		sections.Trending = movies
		return nil
	})
	p.Go(func(ctx context.Context) error {
		movies, err := c.NowPlaying(ctx)
		if err != nil {
			return err
		}
		sections.NowPlaying = movies
		return nil
	})

	if err := p.Wait(); err != nil {
		return HomeSections{}, err
	}
	return sections, nil
}

// MoviePage fetches the detail record and recommendations for id
// concurrently, both-or-fail.
func (c *Client) MoviePage(ctx context.Context, id int) (MovieView, error) {
	var view MovieView

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		movie, err := c.Details(ctx, id)
		if err != nil {
			return err
		}
		view.Movie = movie
		return nil
	})
	p.Go(func(ctx context.Context) error {
		recs, err := c.Recommendations(ctx, id)
		if err != nil {
			return err
		}
		view.Recommendations = recs
		return nil
	})

	if err := p.Wait(); err != nil {
		return MovieView{}, err
	}
	return view, nil
}
