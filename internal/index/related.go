package index

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// RelatedEntry is an entry scored against another.
type RelatedEntry struct {
	Entry Entry
	Score int
}

const (
	maxRelated      = 3
	minRelatedScore = 3
)

// Related finds up to three entries that share tags or vocabulary with the
// entry identified by id. The entry itself is excluded.
func (idx *Index) Related(ctx context.Context, id string) (Entry, []RelatedEntry, error) {
	target, err := idx.Get(ctx, id)
	if err != nil {
		return Entry{}, nil, err
	}
	all, err := idx.Recent(ctx, 0)
	if err != nil {
		return Entry{}, nil, err
	}
	return target, related(target, all), nil
}

func related(target Entry, candidates []Entry) []RelatedEntry {
	var results []RelatedEntry
	for _, e := range candidates {
		if e.ID == target.ID {
			continue
		}
		if score := computeScore(target, e); score >= minRelatedScore {
			results = append(results, RelatedEntry{Entry: e, Score: score})
		}
	}

	// Score descending, newer first on ties.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.CreatedAt.After(results[j].Entry.CreatedAt)
	})

	if len(results) > maxRelated {
		results = results[:maxRelated]
	}
	return results
}

func computeScore(a, b Entry) int {
	score := 0

	// Shared tags: 3 each, capped at 9.
	tagScore := len(setIntersection(a.Tags, b.Tags)) * 3
	if tagScore > 9 {
		tagScore = 9
	}
	score += tagScore

	// Shared title words: 2 each.
	score += len(setIntersection(significantWords(a.Title), significantWords(b.Title))) * 2

	// Body vocabulary overlap: 1 per 5 shared words, capped at 4.
	bodyScore := len(setIntersection(significantWords(a.Body), significantWords(b.Body))) / 5
	if bodyScore > 4 {
		bodyScore = 4
	}
	score += bodyScore

	return score
}

// significantWords extracts words of five or more letters, lowercased,
// skipping common Spanish and English words.
func significantWords(s string) []string {
	var result []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?¡¿\"'`()[]{}*#_-")
		if utf8.RuneCountInString(w) >= 5 && !stopWords[w] {
			result = append(result, w)
		}
	}
	return result
}

var stopWords = map[string]bool{
	"sobre": true, "entre": true, "hasta": true, "desde": true,
	"porque": true, "cuando": true, "donde": true, "también": true,
	"aunque": true, "mientras": true, "después": true, "antes": true,
	"estaba": true, "estoy": true, "había": true, "hacer": true,
	"puede": true, "tengo": true, "tenía": true, "mucho": true,
	"mucha": true, "todos": true, "todas": true, "otros": true,
	"otras": true, "nuestro": true, "nuestra": true, "luego": true,
	"about": true, "after": true, "before": true, "being": true,
	"there": true, "these": true, "those": true, "their": true,
	"would": true, "could": true, "should": true, "which": true,
}

// setIntersection returns elements present in both slices.
func setIntersection(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	var result []string
	for _, s := range b {
		if set[s] {
			result = append(result, s)
			delete(set, s) // avoid duplicates
		}
	}
	return result
}
