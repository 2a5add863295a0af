
package keywords

import (
	"regexp"
	"strings"
)

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// FullStopwords is the stopword set of the default analysis.
var FullStopwords = set(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "can", "must", "shall",
	"this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	"my", "your", "his", "her", "its", "our", "their", "me", "him", "us", "them",
	"not", "no", "yes", "all", "any", "some", "many", "much", "more", "most", "other",
	"from", "up", "out", "down", "off", "over", "under", "again", "further", "then", "once",
)

// BasicStopwords covers articles, prepositions and auxiliaries only.
var BasicStopwords = set(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	"is", "are", "was", "were", "be", "been", "being", "have", "has", "had", "do", "does", "did",
)

const minTokenLen = 3

var (
	// wordRe finds maximal runs of word characters; asciiTokenRe then keeps
	// only the runs that are plain ASCII alphanumerics. Together they drop
	// anything glued to non-ASCII letters instead of splitting it off.
	wordRe       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	asciiTokenRe = regexp.MustCompile(`^[a-z0-9]+$`)
)

type Tokenizer struct {
	Stopwords map[string]struct{}
}

func NewTokenizer(stopwords map[string]struct{}) *Tokenizer {
	return &Tokenizer{Stopwords: stopwords}
}

// Tokenize lower-cases every title and returns its tokens in order, minus
// stopwords and tokens shorter than three characters.
func (t *Tokenizer) Tokenize(titles []string) []string {
	var out []string
	for _, title := range titles {
		for _, w := range wordRe.FindAllString(strings.ToLower(title), -1) {
			if len(w) < minTokenLen || !asciiTokenRe.MatchString(w) {
				continue
			}
			if _, stop := t.Stopwords[w]; stop {
				continue
			}
			out = append(out, w)
		}
	}
	return out
}
