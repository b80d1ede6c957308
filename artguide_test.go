package artguide

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/artguide/ai/mock"
	"github.com/poiesic/artguide/core"
	"github.com/poiesic/artguide/etl"
	"github.com/poiesic/artguide/pipeline"
	"github.com/poiesic/artguide/wikiart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWikiArtServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/MostViewedPaintings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("paginationToken") {
		case "":
			w.Write([]byte(`{"data":[
				{"id":"starry","title":"The Starry Night","year":"1889","artistName":"Vincent van Gogh","image":"https://uploads.example/starry.jpg"},
				{"id":"mona","title":"Mona Lisa","year":"1519","artistName":"Leonardo da Vinci","image":"https://uploads.example/mona.jpg"}
			],"paginationToken":"p2","hasMore":true}`))
		default:
			w.Write([]byte(`{"data":[{"id":"scream","title":"The Scream","year":"1893","artistName":"Edvard Munch"}],"hasMore":false}`))
		}
	})
	mux.HandleFunc("GET /api/Painting/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.PathValue("id") {
		case "mona":
			w.Write([]byte(`{"galleries":["Louvre, Paris, France"],"description":"Portrait of Lisa Gherardini."}`))
		case "scream":
			http.Error(w, "gone", http.StatusNotFound)
		default:
			w.Write([]byte(`{"galleries":["MoMA, New York City"]}`))
		}
	})
	mux.HandleFunc("GET /wiki", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		query := r.URL.Query().Get("search")
		w.Write([]byte(`["` + query + `",["` + query + `"],[""],["https://en.wikipedia.org/wiki/` + r.URL.Query().Get("search") + `"]]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := OpenCatalog("", WithInMemory(), WithEmbedder(mock.NewMockEmbedder()))
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func TestOpenCatalog(t *testing.T) {
	t.Run("create on disk", func(t *testing.T) {
		catalog, err := OpenCatalog(filepath.Join(t.TempDir(), "catalog"), WithEmbedder(mock.NewMockEmbedder()))
		require.NoError(t, err)
		assert.NotNil(t, catalog.Paintings())
		assert.NotNil(t, catalog.Checkpoints())
		assert.NoError(t, catalog.Close())
	})

	t.Run("default embedder", func(t *testing.T) {
		catalog, err := OpenCatalog("", WithInMemory())
		require.NoError(t, err)
		assert.NotNil(t, catalog.embedder)
		assert.NoError(t, catalog.Close())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		catalog, err := OpenCatalog(tmpFile, WithEmbedder(mock.NewMockEmbedder()))
		assert.Error(t, err)
		assert.Nil(t, catalog)
	})
}

func TestCatalog_IngestEnrichSearch(t *testing.T) {
	ctx := context.Background()
	server := newWikiArtServer(t)
	catalog := newTestCatalog(t)

	client, err := wikiart.NewClient(
		wikiart.WithBaseURL(server.URL+"/api"),
		wikiart.WithWikipediaURL(server.URL+"/wiki"),
	)
	require.NoError(t, err)

	ingest, err := catalog.NewCatalogETL(client, etl.WithBatchSize(2), etl.WithPageDelay(0))
	require.NoError(t, err)
	p, err := pipeline.New(ingest, pipeline.WithWorkers(2))
	require.NoError(t, err)

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Complete())
	assert.Equal(t, 3, report.RecordsLoaded)
	assert.Equal(t, 2, report.BatchesLoaded)

	count, err := catalog.Paintings().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	mona, err := catalog.Paintings().GetRecord(ctx, core.IDFromContent("mona"))
	require.NoError(t, err)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Mona Lisa Leonardo da Vinci", mona.Fields[wikiart.FieldURL])
	assert.NotEmpty(t, mona.Vector)

	enrich, err := catalog.NewEnrichmentETL(client, etl.WithBatchSize(2))
	require.NoError(t, err)
	p, err = pipeline.New(enrich)
	require.NoError(t, err)

	report, err = p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.RecordsLoaded)
	assert.Equal(t, 1, report.EnrichmentFailures, "the missing detail page only affects its own record")

	mona, err = catalog.Paintings().GetRecord(ctx, core.IDFromContent("mona"))
	require.NoError(t, err)
	assert.Equal(t, "Louvre, Paris, France", mona.Fields[wikiart.FieldMuseum])
	assert.Equal(t, "Mona Lisa", mona.Fields[wikiart.FieldTitle], "enrichment keeps existing fields")
	assert.NotEmpty(t, mona.Vector, "enrichment keeps the stored vector")

	scream, err := catalog.Paintings().GetRecord(ctx, core.IDFromContent("scream"))
	require.NoError(t, err)
	_, hasMuseum := scream.Field(wikiart.FieldMuseum)
	assert.False(t, hasMuseum)

	searcher, err := catalog.NewSearcher()
	require.NoError(t, err)
	results, err := searcher.FindSimilar(ctx, "Mona Lisa by Leonardo da Vinci", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "mona", results[0].Record.Key)
}
