package robots

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/findable-ai/findable-score/internal/metadata"
	"github.com/findable-ai/findable-score/internal/robots/cache"
)

/*
Responsibilities

- Fetch robots.txt per host
- Cache rules for crawl duration
- Enforce allow/disallow rules for each candidate URL

The audit crawler runs the robots check after a URL is dequeued from the
frontier and before it is fetched.
*/

// Robot is the decision surface the scheduler depends on: given a candidate
// URL, say whether it may be crawled. CachedRobot is the only implementation
// used outside tests.
type Robot interface {
	Init(userAgent string)
	InitWithCache(userAgent string, c cache.Cache)
	Decide(target url.URL) (Decision, *RobotsError)
}

// CachedRobot answers allow/disallow decisions for whatever hosts it is
// asked about, backed by a RobotsFetcher whose own cache means a host's
// robots.txt is fetched at most once per crawl. It is a value type so a
// zero CachedRobot is a recognizable "not yet initialized" sentinel; every
// method that reads or builds state takes a pointer receiver.
type CachedRobot struct {
	fetcher   *RobotsFetcher
	sink      metadata.MetadataSink
	userAgent string
}

var _ Robot = (*CachedRobot)(nil)

// NewCachedRobot returns an uninitialized CachedRobot bound to sink. Init or
// InitWithCache must be called before Decide.
func NewCachedRobot(sink metadata.MetadataSink) CachedRobot {
	return CachedRobot{sink: sink}
}

// Init readies the robot with the given crawler user agent and a fresh
// in-memory cache.
func (r *CachedRobot) Init(userAgent string) {
	r.InitWithCache(userAgent, cache.NewMemoryCache())
}

// InitWithCache readies the robot with an explicit cache implementation,
// letting callers share a cache across robots or substitute a test double.
func (r *CachedRobot) InitWithCache(userAgent string, c cache.Cache) {
	r.userAgent = userAgent
	r.fetcher = NewRobotsFetcher(r.sink, userAgent, c)
}

// Decide fetches (or reuses the cached) robots.txt for target's host and
// evaluates target's path against it. A fetch failure is returned as an
// error so callers can distinguish "we don't know" from "disallowed" — it
// is never silently turned into a deny-all decision.
func (r *CachedRobot) Decide(target url.URL) (Decision, *RobotsError) {
	scheme := target.Scheme
	if scheme == "" {
		scheme = "https"
	}

	result, fetchErr := r.fetcher.Fetch(context.Background(), scheme, target.Host)
	if fetchErr != nil {
		if r.sink != nil {
			r.sink.RecordError(time.Now(), "robots", "fetch", mapRobotsErrorToMetadataCause(fetchErr), fetchErr.Error(), []metadata.Attribute{
				metadata.NewAttr(metadata.AttrHost, target.Host),
			})
		}
		return Decision{}, fetchErr
	}

	rules := MapResponseToRuleSet(result.Response, r.userAgent, result.FetchedAt)
	return IsAllowed(rules, target), nil
}

// IsAllowed evaluates path against the resolved ruleSet using the
// longest-matching-rule-wins semantics of spec.md §4.1/§4.3: among every
// Allow/Disallow rule whose prefix matches path, the longest prefix wins;
// ties and "no rule matches" both resolve to allow.
func IsAllowed(rules ruleSet, target url.URL) Decision {
	path := target.Path
	if path == "" {
		path = "/"
	}

	delay := time.Duration(0)
	if d := rules.CrawlDelay(); d != nil {
		delay = *d
	}

	if !rules.hasGroups && !rules.matchedGroup {
		return Decision{Url: target, Allowed: true, Reason: EmptyRuleSet, CrawlDelay: delay}
	}
	if !rules.matchedGroup {
		return Decision{Url: target, Allowed: true, Reason: UserAgentNotMatched, CrawlDelay: delay}
	}

	bestLen := -1
	bestAllowed := true
	matched := false

	consider := func(rule pathRule, allowed bool) {
		if !matchesPath(rule.prefix, path) {
			return
		}
		matched = true
		if len(rule.prefix) > bestLen {
			bestLen = len(rule.prefix)
			bestAllowed = allowed
		}
	}
	for _, rule := range rules.allowRules {
		consider(rule, true)
	}
	for _, rule := range rules.disallowRules {
		consider(rule, false)
	}

	if !matched {
		return Decision{Url: target, Allowed: true, Reason: NoMatchingRules, CrawlDelay: delay}
	}

	reason := DisallowedByRobots
	if bestAllowed {
		reason = AllowedByRobots
	}
	return Decision{Url: target, Allowed: bestAllowed, Reason: reason, CrawlDelay: delay}
}

// matchesPath implements robots.txt path matching with `*` wildcard and `$`
// end-anchor support, per spec.md §4.1.
func matchesPath(pattern, path string) bool {
	if pattern == "" || pattern == "/" {
		return true
	}
	anchored := strings.HasSuffix(pattern, "$")
	pattern = strings.TrimSuffix(pattern, "$")

	segments := strings.Split(pattern, "*")
	rest := path
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		idx := strings.Index(rest, seg)
		if idx == -1 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		rest = rest[idx+len(seg):]
	}
	if anchored {
		return rest == ""
	}
	return true
}
