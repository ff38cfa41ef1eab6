package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>Markets</title>
	<link>https://example.com</link>
	<description>Market news</description>
	<item>
		<title>Fed holds rates steady</title>
		<link>https://example.com/fed-holds</link>
		<description>&lt;p&gt;The Federal Reserve &lt;b&gt;held&lt;/b&gt; rates.&lt;/p&gt;</description>
		<content:encoded><![CDATA[<p>Full content of the fed story</p>]]></content:encoded>
		<pubDate>Mon, 02 Jan 2024 15:04:05 -0500</pubDate>
	</item>
	<item>
		<title>Oil jumps on supply cut</title>
		<link>https://example.com/oil-jumps</link>
		<description>Brent rose 4%.</description>
	</item>
</channel>
</rss>`

func TestParser_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestAgent/1.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "application/rss+xml")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testRSS))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "TestAgent/1.0")
	entries, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Fed holds rates steady", entries[0].Title)
	assert.Equal(t, "https://example.com/fed-holds", entries[0].Link)
	assert.Contains(t, entries[0].Description, "Federal Reserve")
	assert.Equal(t, "<p>Full content of the fed story</p>", entries[0].Content)
	require.NotNil(t, entries[0].Published)
	assert.Equal(t, time.Date(2024, 1, 2, 20, 4, 5, 0, time.UTC), entries[0].Published.UTC())

	assert.Equal(t, "Oil jumps on supply cut", entries[1].Title)
	assert.Nil(t, entries[1].Published)
}

func TestParser_ParseAtom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Atom Markets</title>
	<updated>2024-01-02T15:04:05Z</updated>
	<entry>
		<title>Treasury yields climb</title>
		<link href="https://example.com/yields"/>
		<id>yields</id>
		<updated>2024-01-02T15:04:05Z</updated>
		<summary>Ten-year yield tops 4.5%.</summary>
	</entry>
</feed>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atom))
	}))
	defer server.Close()

	entries, err := NewParser(5*time.Second, "test").Parse(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Treasury yields climb", entries[0].Title)
	assert.Equal(t, "https://example.com/yields", entries[0].Link)
	assert.Equal(t, "Ten-year yield tops 4.5%.", entries[0].Description)
	require.NotNil(t, entries[0].Updated)
}

func TestParser_Errors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := NewParser(5*time.Second, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 403")
	})

	t.Run("not a feed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("this is not a feed"))
		}))
		defer server.Close()

		_, err := NewParser(5*time.Second, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		_, err := NewParser(50*time.Millisecond, "test").Parse(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := NewParser(time.Second, "test").Parse(context.Background(), "://bad")
		require.Error(t, err)
	})
}
