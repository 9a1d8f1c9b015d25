package determinism

import (
	"errors"
	"fmt"
	"sync"

	"github.com/findable-ai/findable-score/pkg/hashutil"
)

type HTTPMatchMode string

const (
	// HTTPMatchNone never replays; every call is a live passthrough.
	HTTPMatchNone HTTPMatchMode = "none"
	// HTTPMatchNewEpisodes replays a recorded match, but the behavior on
	// a miss is unresolved upstream: whether production actually records
	// a new episode on a miss, or only replays and treats a miss as an
	// error, has not been confirmed. This cassette takes the
	// conservative reading and errors on a miss rather than silently
	// recording, so a caller never mistakes a cache-miss passthrough for
	// a verified replay.
	HTTPMatchNewEpisodes HTTPMatchMode = "new_episodes"
	// HTTPMatchAll requires every call to match a recorded episode.
	HTTPMatchAll HTTPMatchMode = "all"
	// HTTPMatchOptional replays on a match, falls through to live on a
	// miss.
	HTTPMatchOptional HTTPMatchMode = "optional"
)

// ErrNewEpisodesMiss is returned by Match in HTTPMatchNewEpisodes mode
// when no recorded episode matches the request.
var ErrNewEpisodesMiss = errors.New("determinism: new_episodes mode has no recorded episode for this request")

// ErrNoMatch is returned by Match in HTTPMatchAll mode on a miss.
var ErrNoMatch = errors.New("determinism: no recorded episode matches this request")

// HTTPEpisode is one recorded request/response tuple.
type HTTPEpisode struct {
	Method     string
	URL        string
	Body       []byte
	StatusCode int
	Headers    map[string]string
	Response   []byte
}

func httpKey(method, url string, body []byte) (string, error) {
	return hashutil.HashBytes([]byte(method+"\x00"+url+"\x00"+string(body)), hashutil.HashAlgoSHA256)
}

// HTTPCassette records and replays HTTP episodes keyed by
// hash(method, url, body).
type HTTPCassette struct {
	mode HTTPMatchMode

	mu       sync.Mutex
	episodes map[string]HTTPEpisode
}

func NewHTTPCassette(mode HTTPMatchMode) *HTTPCassette {
	return &HTTPCassette{mode: mode, episodes: map[string]HTTPEpisode{}}
}

// Record stores an episode, overwriting any prior recording for the
// same key.
func (c *HTTPCassette) Record(ep HTTPEpisode) error {
	key, err := httpKey(ep.Method, ep.URL, ep.Body)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.episodes[key] = ep
	return nil
}

// Match looks up a recorded episode for (method, url, body), honoring
// the cassette's matching mode. The bool reports whether the caller
// should replay the returned episode; false means go live (only
// possible in HTTPMatchNone or a HTTPMatchOptional miss).
func (c *HTTPCassette) Match(method, url string, body []byte) (HTTPEpisode, bool, error) {
	if c.mode == HTTPMatchNone {
		return HTTPEpisode{}, false, nil
	}
	key, err := httpKey(method, url, body)
	if err != nil {
		return HTTPEpisode{}, false, err
	}

	c.mu.Lock()
	ep, ok := c.episodes[key]
	c.mu.Unlock()

	switch c.mode {
	case HTTPMatchNewEpisodes:
		if !ok {
			return HTTPEpisode{}, false, fmt.Errorf("%w: %s %s", ErrNewEpisodesMiss, method, url)
		}
		return ep, true, nil
	case HTTPMatchAll:
		if !ok {
			return HTTPEpisode{}, false, fmt.Errorf("%w: %s %s", ErrNoMatch, method, url)
		}
		return ep, true, nil
	case HTTPMatchOptional:
		return ep, ok, nil
	default:
		return HTTPEpisode{}, false, nil
	}
}
