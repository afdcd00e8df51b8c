package score

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ppiankov/stratsearch/internal/model"
)

// LinkScorer ranks candidate document URLs by host heuristics
type LinkScorer struct {
	config *model.AuthorityConfig
}

// NewLinkScorer creates a new link scorer
func NewLinkScorer(config *model.AuthorityConfig) *LinkScorer {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	normalized := &model.AuthorityConfig{
		GovernmentWeight: config.GovernmentWeight,
		TopicWeight:      config.TopicWeight,
	}
	for _, m := range config.GovernmentMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			normalized.GovernmentMarkers = append(normalized.GovernmentMarkers, m)
		}
	}
	for _, k := range config.TopicKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			normalized.TopicKeywords = append(normalized.TopicKeywords, k)
		}
	}

	return &LinkScorer{config: normalized}
}

// Score returns the host score of a URL: the government weight if the host
// contains any government marker, plus the topic weight if it contains any
// topic keyword. Unparseable URLs score zero.
func (s *LinkScorer) Score(rawURL string) int {
	host := hostOf(rawURL)
	if host == "" {
		return 0
	}

	score := 0
	if containsAny(host, s.config.GovernmentMarkers) {
		score += s.config.GovernmentWeight
	}
	if containsAny(host, s.config.TopicKeywords) {
		score += s.config.TopicWeight
	}
	return score
}

// Rank picks the primary link and up to MaxSecondaryLinks alternates.
// Blank candidates are discarded. Ties keep candidate order; the
// secondaries keep their original order too. Returns "" when nothing is left.
func (s *LinkScorer) Rank(candidates []string) (string, []string) {
	urls := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			urls = append(urls, c)
		}
	}
	if len(urls) == 0 {
		return "", nil
	}

	order := make([]int, len(urls))
	scores := make([]int, len(urls))
	for i, u := range urls {
		order[i] = i
		scores[i] = s.Score(u)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	best := order[0]
	var secondary []string
	for i, u := range urls {
		if i == best {
			continue
		}
		if len(secondary) == model.MaxSecondaryLinks {
			break
		}
		secondary = append(secondary, u)
	}

	return urls[best], secondary
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

func containsAny(host string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(host, n) {
			return true
		}
	}
	return false
}
