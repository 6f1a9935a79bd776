package rules

import (
	"regexp"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"

	"github.com/textmod/modgate/pkg/config"
	"github.com/textmod/modgate/pkg/domain/content"
)

var urlPattern = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)

// Matcher holds the compiled rule-based signal sources: a profanity
// automaton feeding the immoral boost and an ad-keyword automaton plus
// structural heuristics feeding the rule spam score. Patterns are matched
// on a normalized form so spacing and punctuation tricks do not evade them.
type Matcher struct {
	profanity *goahocorasick.Machine
	ads       *goahocorasick.Machine
	cfg       config.RulesConfig
}

func NewMatcher(cfg config.RulesConfig) (*Matcher, error) {
	m := &Matcher{cfg: cfg}

	var err error
	if m.profanity, err = buildMachine(cfg.ProfanityWords); err != nil {
		return nil, err
	}
	if m.ads, err = buildMachine(cfg.AdKeywords); err != nil {
		return nil, err
	}
	return m, nil
}

func buildMachine(words []string) (*goahocorasick.Machine, error) {
	if len(words) == 0 {
		return nil, nil
	}
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		normalized := normalizeRunes([]rune(word))
		if len(normalized) == 0 {
			continue
		}
		patterns = append(patterns, normalized)
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return machine, nil
}

// ProfanityBoost returns the additive immoral-score term for matched
// profanity, capped by the configured maximum, plus the matched words.
func (m *Matcher) ProfanityBoost(text string) (float64, []string) {
	matched := matchWords(m.profanity, text)
	if len(matched) == 0 {
		return 0, nil
	}
	boost := float64(len(matched)) * m.cfg.ProfanityBoostPerMatch
	if boost > m.cfg.ProfanityBoostMax {
		boost = m.cfg.ProfanityBoostMax
	}
	return boost, matched
}

// SpamScore combines ad-keyword hits with structural heuristics (links,
// repeated runs) into the rule-based spam head.
func (m *Matcher) SpamScore(text string) (float64, []string) {
	var score float64
	var categories []string

	adHits := matchWords(m.ads, text)
	if len(adHits) > 0 {
		score += float64(len(adHits)) * 20
		if score > 60 {
			score = 60
		}
		categories = append(categories, content.CategoryAdvertising)
	}

	urls := urlPattern.FindAllString(text, -1)
	if len(urls) > 0 {
		score += float64(len(urls)) * 15
	}

	if hasLongRepeat(text, 5) {
		score += 15
		categories = append(categories, content.CategoryRepetitive)
	}

	return content.Clamp(score), categories
}

// Categories reports the rule-derived tags for the merged detected-types
// list.
func (m *Matcher) Categories(text string) []string {
	var tags []string
	if _, matched := m.ProfanityBoost(text); len(matched) > 0 {
		tags = append(tags, content.CategoryAbusive)
	}
	_, spamTags := m.SpamScore(text)
	tags = append(tags, spamTags...)
	return tags
}

func matchWords(machine *goahocorasick.Machine, text string) []string {
	if machine == nil {
		return nil
	}
	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return nil
	}
	terms := machine.MultiPatternSearch(normalized, false)
	if len(terms) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(terms))
	var words []string
	for _, term := range terms {
		word := string(term.Word)
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

// normalizeRunes lowercases and strips everything but letters and digits,
// so "V.i.a.g.r.a" and "viagra" normalize to the same pattern.
func normalizeRunes(in []rune) []rune {
	out := make([]rune, 0, len(in))
	for _, r := range in {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, unicode.ToLower(r))
		}
	}
	return out
}

func hasLongRepeat(text string, n int) bool {
	if n < 2 {
		return false
	}
	runs := 1
	var prev rune
	for i, r := range strings.ToLower(text) {
		if i > 0 && r == prev && !unicode.IsSpace(r) {
			runs++
			if runs >= n {
				return true
			}
		} else {
			runs = 1
		}
		prev = r
	}
	return false
}
