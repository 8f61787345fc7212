package extractor

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Terms are runs of two or more word characters.
var termPattern = regexp.MustCompile(`\b\w\w+\b`)

type ranked struct {
	term  string
	score float64
}

func terms(s string) []string {
	return termPattern.FindAllString(strings.ToLower(s), -1)
}

// rankBySimilarity fits a smoothed TF-IDF space over documents plus query and
// returns documents ordered by cosine similarity to the query. Ties keep
// document order.
func rankBySimilarity(query string, documents []string) []ranked {
	if len(documents) == 0 {
		return nil
	}

	corpus := make([][]string, 0, len(documents)+1)
	for _, doc := range documents {
		corpus = append(corpus, terms(doc))
	}
	corpus = append(corpus, terms(query))

	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(corpus))
	vectors := make([]map[string]float64, len(corpus))
	for i, doc := range corpus {
		vectors[i] = weigh(doc, df, n)
	}

	q := vectors[len(vectors)-1]
	out := make([]ranked, len(documents))
	for i, doc := range documents {
		out[i] = ranked{term: doc, score: dot(q, vectors[i])}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}

func weigh(doc []string, df map[string]int, n float64) map[string]float64 {
	v := make(map[string]float64, len(doc))
	for _, t := range doc {
		v[t]++
	}

	var norm float64
	for t, tf := range v {
		w := tf * (math.Log((1+n)/(1+float64(df[t]))) + 1)
		v[t] = w
		norm += w * w
	}
	if norm == 0 {
		return v
	}

	norm = math.Sqrt(norm)
	for t := range v {
		v[t] /= norm
	}
	return v
}

func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for t, w := range a {
		sum += w * b[t]
	}
	return sum
}
