package etl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/poiesic/artguide/core"
	"github.com/poiesic/artguide/storage"
	"github.com/poiesic/artguide/storage/badger"
	"github.com/poiesic/artguide/wikiart"
	"github.com/stretchr/testify/require"
)

// fakeSource implements PaintingSource and DetailSource in memory.
type fakeSource struct {
	mu sync.Mutex

	pages   map[string]*wikiart.Page
	pageErr map[string]error
	tokens  []string

	articles  map[string]string
	searchErr error
	searches  int

	details    map[string]*wikiart.Details
	detailErr  map[string]error
	detailHits []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages:     map[string]*wikiart.Page{},
		pageErr:   map[string]error{},
		articles:  map[string]string{},
		details:   map[string]*wikiart.Details{},
		detailErr: map[string]error{},
	}
}

func (f *fakeSource) MostViewedPaintings(ctx context.Context, token string) (*wikiart.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if err := f.pageErr[token]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[token]; ok {
		return page, nil
	}
	return &wikiart.Page{}, nil
}

func (f *fakeSource) SearchWikipedia(ctx context.Context, title, artist string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	if f.searchErr != nil {
		return "", f.searchErr
	}
	return f.articles[title], nil
}

func (f *fakeSource) PaintingDetails(ctx context.Context, id string) (*wikiart.Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailHits = append(f.detailHits, id)
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return &wikiart.Details{}, nil
}

// addPages registers a chain of listing pages with the given painting counts.
// Painting ids are p1, p2, ... across pages.
func (f *fakeSource) addPages(counts ...int) {
	n := 0
	token := ""
	for i, count := range counts {
		page := &wikiart.Page{HasMore: i < len(counts)-1}
		for range count {
			n++
			page.Data = append(page.Data, wikiart.Painting{
				ID:         fmt.Sprintf("p%d", n),
				Title:      fmt.Sprintf("Painting %d", n),
				ArtistName: fmt.Sprintf("Artist %d", n%3),
				Image:      fmt.Sprintf("https://img.example/%d.jpg", n),
			})
		}
		if page.HasMore {
			page.PaginationToken = fmt.Sprintf("token-%d", i+1)
		}
		f.pages[token] = page
		token = page.PaginationToken
	}
}

func newTestRepos(t *testing.T) (storage.PaintingRepository, storage.CheckpointRepository) {
	t.Helper()
	paintings, checkpoints, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		paintings.Close()
		backend.Close()
	})
	return paintings, checkpoints
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// collect drains an extractor, returning its batches and the first error.
func collect(t *testing.T, seq func(func(core.Batch, error) bool)) ([]core.Batch, error) {
	t.Helper()
	var batches []core.Batch
	for batch, err := range seq {
		if err != nil {
			return batches, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

func batchSizes(batches []core.Batch) []int {
	sizes := make([]int, len(batches))
	for i, b := range batches {
		sizes[i] = len(b)
	}
	return sizes
}
