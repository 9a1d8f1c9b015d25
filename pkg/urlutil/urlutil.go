package urlutil

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SkipExtensions lists path suffixes that are never worth fetching during a
// crawl: images, documents, media, archives, and data files carry no
// additional findability signal over the page that links to them.
var SkipExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".ico": true, ".webp": true, ".bmp": true, ".tiff": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".flv": true, ".webm": true, ".wav": true,
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true,
	".json": true, ".xml": true, ".csv": true, ".txt": true, ".log": true,
	".exe": true, ".dmg": true, ".apk": true, ".ipa": true,
}

// SkipPatterns matches URLs that point at feeds, CMS internals, or other
// paths that add crawl volume without adding findability signal.
var SkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/feed/?$`),
	regexp.MustCompile(`(?i)/rss/?$`),
	regexp.MustCompile(`(?i)/atom/?$`),
	regexp.MustCompile(`(?i)/wp-admin/`),
	regexp.MustCompile(`(?i)/wp-includes/`),
	regexp.MustCompile(`(?i)/wp-content/uploads/`),
	regexp.MustCompile(`(?i)/cdn-cgi/`),
}

// trackingParams lists query keys stripped when building a dedup key for the
// frontier, distinct from Canonicalize's (stricter) strip-all-query policy.
var trackingParams = map[string]bool{
	"utm_source": true, "utm_medium": true, "utm_campaign": true,
	"utm_term": true, "utm_content": true,
	"fbclid": true, "gclid": true, "msclkid": true, "dclid": true,
	"ref": true, "source": true, "mc_cid": true, "mc_eid": true,
	"_ga": true, "_gl": true, "_hsenc": true, "_hsmi": true,
	"sessionid": true, "sid": true, "session": true,
}

// ShouldSkip reports whether target should never be enqueued for crawling:
// a known non-content extension or a feed/CMS-internal path pattern.
func ShouldSkip(target url.URL) bool {
	pathLower := strings.ToLower(target.Path)
	for ext := range SkipExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return true
		}
	}
	for _, pattern := range SkipPatterns {
		if pattern.MatchString(target.Path) {
			return true
		}
	}
	return false
}

// StripTrackingParams removes known tracking/session query parameters from
// target, sorting the remainder for a deterministic representation. Unlike
// Canonicalize, it preserves non-tracking query parameters.
func StripTrackingParams(target url.URL) url.URL {
	out := target
	if target.RawQuery == "" {
		return out
	}
	values := target.Query()
	for key := range values {
		if trackingParams[strings.ToLower(key)] {
			values.Del(key)
		}
	}
	if len(values) == 0 {
		out.RawQuery = ""
		return out
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	encoded := url.Values{}
	for _, k := range keys {
		encoded[k] = values[k]
	}
	out.RawQuery = encoded.Encode()
	return out
}

// RegisteredDomain returns the eTLD+1 registered domain for host (e.g.
// "docs.example.co.uk" -> "example.co.uk"), using the public suffix list so
// multi-part TLDs are handled correctly.
func RegisteredDomain(host string) string {
	host = strings.ToLower(host)
	if idx := strings.IndexByte(host, ':'); idx != -1 {
		host = host[:idx]
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// SameRegisteredDomain reports whether a and b share the same eTLD+1,
// meaning "docs.example.com" and "www.example.com" are the same site but
// "example.com" and "example.org" are not.
func SameRegisteredDomain(a, b string) bool {
	return RegisteredDomain(a) == RegisteredDomain(b)
}

// Depth returns the number of non-empty path segments in target, used to
// bound crawl breadth-first traversal.
func Depth(target url.URL) int {
	trimmed := strings.Trim(target.Path, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}

// Canonicalize applies a deterministic normalization to a URL, producing a canonical form.
// It maps equivalent URL spellings to a single canonical representation.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Query parameters are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Canonicalize(Canonicalize(url)) == Canonicalize(url)
//   - Context-free: does not depend on crawl history
func Canonicalize(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	canonical := sourceUrl

	// Lowercase scheme and host
	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	// Remove default port if present
	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	// Clean the path: remove trailing slashes (except root)
	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	// Remove fragment (anchor)
	canonical.Fragment = ""
	canonical.RawFragment = ""

	// Remove query parameters
	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
