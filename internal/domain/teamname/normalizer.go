package teamname

import (
	"regexp"
	"strings"
)

// Organizational prefixes that vary between data sources ("FC Porto" vs
// "Porto"). Lower-case; compared against normalized tokens.
var prefixTokens = map[string]struct{}{
	"fc": {}, "club": {}, "cf": {}, "ac": {}, "sc": {}, "sd": {}, "cd": {},
	"ud": {}, "fk": {}, "sk": {}, "sl": {}, "ss": {}, "as": {}, "us": {},
	"al": {}, "el": {}, "de": {}, "da": {}, "do": {}, "la": {}, "las": {},
	"los": {}, "sv": {}, "if": {}, "afc": {},
}

// Gender and variant suffixes.
var suffixTokens = map[string]struct{}{
	"w": {}, "women": {}, "fem": {}, "femenino": {}, "ladies": {},
}

// Age categories and B/II squads.
var categoryTokens = map[string]struct{}{
	"u15": {}, "u16": {}, "u17": {}, "u18": {}, "u19": {}, "u20": {},
	"u21": {}, "u23": {}, "reserves": {}, "reserve": {}, "b": {}, "ii": {},
}

var (
	strayCharsRegex = regexp.MustCompile(`[^0-9a-zA-ZÀ-ÿ\s/.\-]`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	tokenSplitRegex = regexp.MustCompile(`[\s/.\-]+`)
)

// Config toggles each stopword class independently.
type Config struct {
	RemovePrefixes   bool
	RemoveSuffixes   bool
	RemoveCategories bool
}

func DefaultConfig() Config {
	return Config{
		RemovePrefixes:   true,
		RemoveSuffixes:   true,
		RemoveCategories: true,
	}
}

// Normalizer canonicalizes team names for fuzzy matching.
type Normalizer struct {
	cfg Config
}

func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize lower-cases the name, keeps diacritics, and collapses
// punctuation and runs of whitespace.
func (n *Normalizer) Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strayCharsRegex.ReplaceAllString(s, " ")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens returns the normalized tokens with the configured stopword
// classes removed.
func (n *Normalizer) Tokens(name string) []string {
	base := n.Normalize(name)
	if base == "" {
		return nil
	}

	raw := tokenSplitRegex.Split(base, -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if tok == "" || n.isStopword(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (n *Normalizer) isStopword(tok string) bool {
	if n.cfg.RemovePrefixes {
		if _, ok := prefixTokens[tok]; ok {
			return true
		}
	}
	if n.cfg.RemoveSuffixes {
		if _, ok := suffixTokens[tok]; ok {
			return true
		}
	}
	if n.cfg.RemoveCategories {
		if _, ok := categoryTokens[tok]; ok {
			return true
		}
	}
	return false
}

// Patterns builds the ordered, de-duplicated LIKE patterns for a name,
// most specific first: the full normalized string, the space-joined
// filtered tokens, and the wildcard-joined tokens when more than one
// remains. Order only affects how fast a decisive match is found;
// correctness does not depend on it because probing stops at the first
// pattern yielding exactly one candidate.
func (n *Normalizer) Patterns(name string) []string {
	base := n.Normalize(name)
	tokens := n.Tokens(name)

	patterns := make([]string, 0, 3)
	if base != "" {
		patterns = append(patterns, "%"+base+"%")
	}
	if len(tokens) > 0 {
		patterns = append(patterns, "%"+strings.Join(tokens, " ")+"%")
	}
	if len(tokens) > 1 {
		patterns = append(patterns, "%"+strings.Join(tokens, "%")+"%")
	}

	return dedupe(patterns)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
