
package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"listing-insights/internal/metrics"
	"listing-insights/pkg/logger"
)

// DefaultMinTitles ends the cascade once this many titles are collected.
const DefaultMinTitles = 20

// Strategy is one step of the selector cascade.
type Strategy struct {
	Name     string
	Selector string
	Match    func(s *goquery.Selection) bool
}

// DefaultStrategies lists the cascade in priority order, current listing
// markup first and progressively looser fallbacks after it.
var DefaultStrategies = []Strategy{
	{Name: "primary", Selector: "h3[class]", Match: classHasAll("textual-display", "bsig__title__text")},
	{Name: "legacy", Selector: "h3[class]", Match: classHasAll("s-item__title")},
	{Name: "aria-heading", Selector: `span[role="heading"]`},
	{Name: "item-title", Selector: "h3[class]", Match: lowerClassHasAll("item", "title")},
	{Name: "item-link", Selector: `a[href*="/itm/"]`},
	{Name: "generic", Selector: "h3[class]", Match: lowerClassHasAny("title", "name", "product")},
}

type Extractor struct {
	MinTitles  int
	Strategies []Strategy

	log     *logger.Logger
	metrics *metrics.Metrics
}

func New(l *logger.Logger, m *metrics.Metrics) *Extractor {
	return &Extractor{
		MinTitles:  DefaultMinTitles,
		Strategies: DefaultStrategies,
		log:        l,
		metrics:    m,
	}
}

// ExtractTitles returns the distinct valid titles found in the document, in
// first-seen order. It never fails: an unreadable document yields nil.
func (e *Extractor) ExtractTitles(r io.Reader, contentType string) []string {
	doc, err := e.parse(r, contentType)
	if err != nil {
		e.log.Errorf("parse listing page: %v", err)
		return nil
	}

	var titles []string
	seen := map[string]struct{}{}
	for _, st := range e.Strategies {
		found, err := e.apply(doc, st, seen)
		if err != nil {
			e.log.Warnf("strategy %s failed: %v", st.Name, err)
			continue
		}
		titles = append(titles, found...)
		e.log.Debugf("strategy %s found %d valid titles", st.Name, len(found))
		e.metrics.TitlesExtracted(st.Name, len(found))

		if len(titles) >= e.MinTitles {
			break
		}
	}
	return titles
}

func (e *Extractor) apply(doc *goquery.Document, st Strategy, seen map[string]struct{}) (found []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			found, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	sel, err := cascadia.Compile(st.Selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", st.Selector, err)
	}
	local := map[string]struct{}{}
	doc.FindMatcher(sel).Each(func(_ int, s *goquery.Selection) {
		if st.Match != nil && !st.Match(s) {
			return
		}
		title := strippedText(s)
		if !IsValidTitle(title) {
			return
		}
		if _, dup := seen[title]; dup {
			return
		}
		if _, dup := local[title]; dup {
			return
		}
		local[title] = struct{}{}
		found = append(found, title)
	})
	// seen only learns a strategy's titles once it has finished cleanly
	for t := range local {
		seen[t] = struct{}{}
	}
	return found, nil
}

func (e *Extractor) parse(r io.Reader, contentType string) (*goquery.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
}

// strippedText joins every descendant text node, each trimmed, with no
// separator. Script and style bodies are skipped.
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(strings.TrimSpace(n.Data))
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

func classOf(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.AttrOr("class", "")), " ")
}

func classHasAll(parts ...string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		class := classOf(s)
		for _, p := range parts {
			if !strings.Contains(class, p) {
				return false
			}
		}
		return class != ""
	}
}

func lowerClassHasAll(parts ...string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		class := strings.ToLower(classOf(s))
		for _, p := range parts {
			if !strings.Contains(class, p) {
				return false
			}
		}
		return class != ""
	}
}

func lowerClassHasAny(parts ...string) func(*goquery.Selection) bool {
	return func(s *goquery.Selection) bool {
		class := strings.ToLower(classOf(s))
		for _, p := range parts {
			if strings.Contains(class, p) {
				return true
			}
		}
		return false
	}
}
