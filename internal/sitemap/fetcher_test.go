package sitemap_test

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findable-ai/findable-score/internal/sitemap"
)

func setupSitemapServer(t *testing.T, paths map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := paths[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(body))
	}))
}

func TestParser_FetchAndParse_UrlSet(t *testing.T) {
	server := setupSitemapServer(t, map[string]string{
		"/sitemap.xml": `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/a</loc><priority>0.9</priority></url>
  <url><loc>https://example.com/b</loc><priority>0.2</priority></url>
</urlset>`,
	})
	defer server.Close()

	parser := sitemap.NewParser(nil, "test-agent/1.0")
	result := parser.FetchAndParse(context.Background(), []string{server.URL + "/sitemap.xml"})

	urls := result.URLs()
	if len(urls) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(urls))
	}
	if urls[0].Loc() != "https://example.com/a" {
		t.Errorf("expected highest priority URL first, got %s", urls[0].Loc())
	}
	if result.SitemapsParsed() != 1 {
		t.Errorf("expected 1 sitemap parsed, got %d", result.SitemapsParsed())
	}
}

func TestParser_FetchAndParse_SitemapIndex(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/index.xml" {
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>` + server.URL + `/child.xml</loc></sitemap>
</sitemapindex>`))
			return
		}
		if r.URL.Path == "/child.xml" {
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/child-page</loc></url>
</urlset>`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	parser := sitemap.NewParser(nil, "test-agent/1.0")
	result := parser.FetchAndParse(context.Background(), []string{server.URL + "/index.xml"})

	urls := result.URLs()
	if len(urls) != 1 || urls[0].Loc() != "https://example.com/child-page" {
		t.Fatalf("expected nested sitemap URL to be recursed into, got %+v", urls)
	}
	if result.SitemapsParsed() != 2 {
		t.Errorf("expected 2 sitemaps parsed (index + child), got %d", result.SitemapsParsed())
	}
}

func TestParser_FetchAndParse_Gzip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml.gz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		gw := gzip.NewWriter(w)
		gw.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/gz-page</loc></url>
</urlset>`))
		gw.Close()
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	parser := sitemap.NewParser(nil, "test-agent/1.0")
	result := parser.FetchAndParse(context.Background(), []string{server.URL + "/sitemap.xml.gz"})

	urls := result.URLs()
	if len(urls) != 1 || urls[0].Loc() != "https://example.com/gz-page" {
		t.Fatalf("expected gzip sitemap to be decompressed and parsed, got %+v", urls)
	}
}

func TestParser_FetchAndParse_MalformedSitemapDoesNotAbort(t *testing.T) {
	server := setupSitemapServer(t, map[string]string{
		"/good.xml": `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/good</loc></url>
</urlset>`,
		"/bad.xml": `not xml at all`,
	})
	defer server.Close()

	parser := sitemap.NewParser(nil, "test-agent/1.0")
	result := parser.FetchAndParse(context.Background(), []string{
		server.URL + "/bad.xml",
		server.URL + "/good.xml",
	})

	if len(result.Errors()) == 0 {
		t.Error("expected malformed sitemap to be recorded as an error")
	}
	urls := result.URLs()
	if len(urls) != 1 || urls[0].Loc() != "https://example.com/good" {
		t.Fatalf("expected the good sitemap to still be parsed, got %+v", urls)
	}
}

func TestParser_FetchAndParse_CapsSitemapCount(t *testing.T) {
	mux := http.NewServeMux()
	for i := 0; i < sitemap.MaxSitemaps+5; i++ {
		path := "/s" + string(rune('a'+i)) + ".xml"
		body := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com` + path + `</loc></url>
</urlset>`
		mux.HandleFunc(path, func(b string) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/xml")
				w.Write([]byte(b))
			}
		}(body))
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	seeds := make([]string, 0, sitemap.MaxSitemaps+5)
	for i := 0; i < sitemap.MaxSitemaps+5; i++ {
		seeds = append(seeds, server.URL+"/s"+string(rune('a'+i))+".xml")
	}

	parser := sitemap.NewParser(nil, "test-agent/1.0")
	result := parser.FetchAndParse(context.Background(), seeds)

	if result.SitemapsParsed() > sitemap.MaxSitemaps {
		t.Errorf("expected at most %d sitemaps parsed, got %d", sitemap.MaxSitemaps, result.SitemapsParsed())
	}
}
