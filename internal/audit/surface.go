package audit

import (
	"net/url"
	"strings"
)

var docsPathPrefixes = []string{
	"/docs", "/documentation", "/guide", "/tutorial", "/api-reference",
	"/reference", "/sdk", "/manual", "/getting-started", "/quickstart", "/how-to",
}

var docsHostPrefixes = []string{
	"docs.", "help.", "developer.", "developers.", "support.", "guide.", "learn.",
}

// classifySurface buckets a page into docs or marketing by path-prefix or
// host-prefix membership, host-prefix checked first since it's cheaper.
func classifySurface(target url.URL) Surface {
	host := strings.ToLower(target.Hostname())
	for _, prefix := range docsHostPrefixes {
		if strings.HasPrefix(host, prefix) {
			return SurfaceDocs
		}
	}

	path := strings.ToLower(target.Path)
	for _, prefix := range docsPathPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return SurfaceDocs
		}
	}

	return SurfaceMarketing
}
