package server

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/marketscope/pkg/domain"
	"github.com/umputun/marketscope/pkg/feed"
)

func TestServer_rssHandler(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.aggregator.SectorArticlesFunc = func(context.Context, string, int, int) ([]domain.Article, error) {
		return []domain.Article{analyzedArticle()}, nil
	}

	t.Run("all sectors", func(t *testing.T) {
		w := request(t, srv, "GET", "/rss")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

		var rss feed.RSS
		require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &rss))
		assert.Equal(t, "Marketscope - All Sectors (Impact ≥ 50)", rss.Channel.Title)
		assert.Contains(t, w.Body.String(), `href="http://localhost:8050/rss"`)
		require.Len(t, rss.Channel.Items, 1)
		assert.Equal(t, "[88] Fed hikes", rss.Channel.Items[0].Title)
		assert.Equal(t, "https://example.com/fed", rss.Channel.Items[0].Link)

		call := deps.aggregator.SectorArticlesCalls()[0]
		assert.Empty(t, call.Bucket)
		assert.Equal(t, 50, call.MinScore)
		assert.Equal(t, 100, call.Limit)
	})

	t.Run("sector from path", func(t *testing.T) {
		w := request(t, srv, "GET", "/rss/Cyclical?min_score=70")
		require.Equal(t, http.StatusOK, w.Code)
		var rss feed.RSS
		require.NoError(t, xml.Unmarshal(w.Body.Bytes(), &rss))
		assert.Equal(t, "Marketscope - Cyclical (Impact ≥ 70)", rss.Channel.Title)
		assert.Contains(t, w.Body.String(), `href="http://localhost:8050/rss/cyclical"`)

		calls := deps.aggregator.SectorArticlesCalls()
		assert.Equal(t, "cyclical", calls[len(calls)-1].Bucket)
		assert.Equal(t, 70, calls[len(calls)-1].MinScore)
	})

	t.Run("sector from query", func(t *testing.T) {
		w := request(t, srv, "GET", "/rss?sector=tmt")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Marketscope - TMT")
	})

	t.Run("unknown sector", func(t *testing.T) {
		w := request(t, srv, "GET", "/rss/crypto")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid min score", func(t *testing.T) {
		for _, v := range []string{"abc", "-1", "101"} {
			w := request(t, srv, "GET", "/rss?min_score="+v)
			assert.Equal(t, http.StatusBadRequest, w.Code, v)
		}
	})

	t.Run("aggregator error", func(t *testing.T) {
		deps.aggregator.SectorArticlesFunc = func(context.Context, string, int, int) ([]domain.Article, error) {
			return nil, errors.New("db closed")
		}
		w := request(t, srv, "GET", "/rss")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db closed")
	})
}

func TestServer_opmlHandler(t *testing.T) {
	srv, _ := newTestServer(t)
	w := request(t, srv, "GET", "/opml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/x-opml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "Marketscope Feed Sources")
	assert.Contains(t, body, `xmlUrl="https://cnbc.example.com/rss"`)
	assert.Contains(t, body, `text="BBC Business"`)
}
