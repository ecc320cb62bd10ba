package countries

import (
	"sort"
	"strings"

	"github.com/goliatone/go-eticket/pkg/ids"
	"github.com/goliatone/go-eticket/pkg/model"
)

type rank int

const (
	rankCode rank = iota
	rankPrefix
	rankContains
)

type match struct {
	option model.Option
	rank   rank
}

// Search returns at most limit countries matching query. Results keep the
// input order within a rank.
func Search(countries []model.Option, query string, limit int, opts Options) []model.Option {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchTop {
			return nil
		}
		return append([]model.Option(nil), countries[:min(limit, len(countries))]...)
	}

	q := fold(query)
	code := strings.ToUpper(query)
	matches := make([]match, 0, 8)
	for _, country := range countries {
		name := fold(country.Label)
		switch {
		case country.Value == code:
			matches = append(matches, match{option: country, rank: rankCode})
		case strings.HasPrefix(name, q):
			matches = append(matches, match{option: country, rank: rankPrefix})
		case strings.Contains(name, q):
			matches = append(matches, match{option: country, rank: rankContains})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]model.Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.option)
	}
	return out
}

// fold lowercases s and strips accents and punctuation, so "Perú" and
// "peru" compare equal.
func fold(s string) string {
	return strings.ToLower(ids.Slug(s))
}
