// Package slug resolves URL slugs to records by trying an ordered list of
// matching strategies.
package slug

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases s, strips accents and replaces everything outside
// [a-z0-9] with single hyphens.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.Join(strings.Fields(result), "-")
	result = nonSlugChars.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Strategy reports whether the requested slug identifies a candidate.
// candidate is the raw source value, such as a team member's name.
type Strategy interface {
	Name() string
	Match(requested, candidate string) bool
}

type exact struct{}

func (exact) Name() string { return "exact" }

// Match compares the request against the candidate's canonical slug.
func (exact) Match(requested, candidate string) bool {
	return requested == Slugify(candidate)
}

type decoded struct{}

func (decoded) Name() string { return "decoded" }

func (decoded) Match(requested, candidate string) bool {
	unescaped, err := url.PathUnescape(requested)
	if err != nil || unescaped == requested {
		return false
	}
	return unescaped == Slugify(candidate) || strings.EqualFold(unescaped, candidate)
}

type normalized struct{}

func (normalized) Name() string { return "normalized" }

func (normalized) Match(requested, candidate string) bool {
	if unescaped, err := url.PathUnescape(requested); err == nil {
		requested = unescaped
	}
	want := Slugify(requested)
	return want != "" && want == Slugify(candidate)
}

type contains struct{}

func (contains) Name() string { return "contains" }

// Match accepts any candidate whose slug contains the normalized request.
func (contains) Match(requested, candidate string) bool {
	if unescaped, err := url.PathUnescape(requested); err == nil {
		requested = unescaped
	}
	want := Slugify(requested)
	return want != "" && strings.Contains(Slugify(candidate), want)
}

var (
	Exact      Strategy = exact{}
	Decoded    Strategy = decoded{}
	Normalized Strategy = normalized{}
	Contains   Strategy = contains{}
)

// DefaultStrategies excludes Contains; substring matching is opt-in.
func DefaultStrategies() []Strategy {
	return []Strategy{Exact, Decoded, Normalized}
}

// ParseStrategies turns a comma-separated list such as
// "exact,decoded,normalized" into strategies, preserving order.
func ParseStrategies(list string) ([]Strategy, error) {
	known := map[string]Strategy{}
	for _, s := range []Strategy{Exact, Decoded, Normalized, Contains} {
		known[s.Name()] = s
	}

	var out []Strategy
	seen := map[string]bool{}
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		s, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown slug strategy %q", name)
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return DefaultStrategies(), nil
	}
	return out, nil
}

type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{strategies: strategies}
}

// Resolve returns the index of the first candidate matched by the earliest
// strategy, the name of that strategy, and whether anything matched.
// Strategies are tried in order over all candidates before moving on.
func (r *Resolver) Resolve(requested string, candidates []string) (int, string, bool) {
	for _, s := range r.strategies {
		for i, c := range candidates {
			if s.Match(requested, c) {
				return i, s.Name(), true
			}
		}
	}
	return -1, "", false
}

func (r *Resolver) Strategies() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}
