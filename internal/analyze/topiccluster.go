package analyze

const (
	pillarMinWords        = 1500
	pillarMinOutboundLinks = 10
	clusterMinWords       = 300
	thinMaxWords          = 300
)

// PageLinkInfo is the per-page input TopicCluster needs: its internal link
// graph and word count. It is deliberately independent of clean.CleanedPage
// so the site-wide crawl can build it without retaining full page bodies.
type PageLinkInfo struct {
	URL                 string
	InternalLinkTargets []string
	WordCount           int
}

type pageRole string

const (
	rolePillar  pageRole = "pillar"
	roleCluster pageRole = "cluster"
	roleOrphan  pageRole = "orphan"
	roleThin    pageRole = "thin"
	roleNormal  pageRole = "normal"
)

// TopicCluster classifies every page into pillar/cluster/orphan/thin,
// detects bidirectional pillar<->cluster pairs, and scores both cluster
// coverage (fraction of pillars with at least one linked-back cluster) and
// link health (fraction of non-orphan pages).
func TopicCluster(pages []PageLinkInfo) Output {
	if len(pages) == 0 {
		out := newOutput("topic_cluster", 0, LevelLimited)
		out.Issues = []string{"no pages to cluster"}
		return out
	}

	inbound := map[string]int{}
	for _, p := range pages {
		for _, target := range p.InternalLinkTargets {
			inbound[target]++
		}
	}

	roles := make(map[string]pageRole, len(pages))
	for _, p := range pages {
		switch {
		case p.WordCount < thinMaxWords:
			roles[p.URL] = roleThin
		case p.WordCount >= pillarMinWords && len(p.InternalLinkTargets) >= pillarMinOutboundLinks:
			roles[p.URL] = rolePillar
		case p.WordCount >= clusterMinWords:
			roles[p.URL] = roleCluster
		default:
			roles[p.URL] = roleNormal
		}
		if inbound[p.URL] == 0 && roles[p.URL] != rolePillar {
			roles[p.URL] = roleOrphan
		}
	}

	byURL := map[string]PageLinkInfo{}
	for _, p := range pages {
		byURL[p.URL] = p
	}

	bidirectionalPairs := 0
	pillarCount := 0
	pillarsWithCluster := 0
	for _, p := range pages {
		if roles[p.URL] != rolePillar {
			continue
		}
		pillarCount++
		linkedBack := false
		for _, target := range p.InternalLinkTargets {
			if roles[target] != roleCluster {
				continue
			}
			if linksTo(byURL[target], p.URL) {
				bidirectionalPairs++
				linkedBack = true
			}
		}
		if linkedBack {
			pillarsWithCluster++
		}
	}

	orphanCount, thinCount := 0, 0
	for _, r := range roles {
		switch r {
		case roleOrphan:
			orphanCount++
		case roleThin:
			thinCount++
		}
	}

	coverageScore := 100.0
	if pillarCount > 0 {
		coverageScore = clampScore(float64(pillarsWithCluster) / float64(pillarCount) * 100)
	}
	linkHealthScore := clampScore(float64(len(pages)-orphanCount) / float64(len(pages)) * 100)

	composite := coverageScore*0.5 + linkHealthScore*0.5
	out := newOutput("topic_cluster", composite, levelFromScore(composite))
	if orphanCount > 0 {
		out.Issues = append(out.Issues, "orphaned pages with no inbound internal links")
	}
	if thinCount > 0 {
		out.Issues = append(out.Issues, "thin-content pages present")
	}
	out.Details["pillar_count"] = pillarCount
	out.Details["orphan_count"] = orphanCount
	out.Details["thin_count"] = thinCount
	out.Details["bidirectional_pairs"] = bidirectionalPairs
	out.Details["coverage_score"] = coverageScore
	out.Details["link_health_score"] = linkHealthScore
	return out
}

func linksTo(page PageLinkInfo, target string) bool {
	for _, t := range page.InternalLinkTargets {
		if t == target {
			return true
		}
	}
	return false
}
