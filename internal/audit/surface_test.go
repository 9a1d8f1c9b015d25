package audit

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySurface(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Surface
	}{
		{"docs host prefix", "https://docs.example.com/anything", SurfaceDocs},
		{"help host prefix", "https://help.example.com/", SurfaceDocs},
		{"developers host prefix", "https://developers.example.com/index", SurfaceDocs},
		{"docs path exact", "https://example.com/docs", SurfaceDocs},
		{"docs path nested", "https://example.com/docs/getting-started", SurfaceDocs},
		{"api-reference path", "https://example.com/api-reference/widgets", SurfaceDocs},
		{"quickstart path", "https://example.com/quickstart", SurfaceDocs},
		{"marketing home", "https://example.com/", SurfaceMarketing},
		{"pricing page", "https://example.com/pricing", SurfaceMarketing},
		{"docs-like but not a prefix match", "https://example.com/docsicle", SurfaceMarketing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, classifySurface(*u))
		})
	}
}
