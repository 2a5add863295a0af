package keywords

import (
	"reflect"
	"testing"

	"listing-insights/internal/models"
)

func TestTokenize(t *testing.T) {
	tok := NewTokenizer(FullStopwords)
	got := tok.Tokenize([]string{"LED Light Strip", "led strip new", "The lamp is a gift for you"})
	want := []string{"led", "light", "strip", "led", "strip", "new", "lamp", "gift"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %#v, want %#v", got, want)
	}
}

func TestTokenizeDropsNonASCIIRuns(t *testing.T) {
	tok := NewTokenizer(FullStopwords)
	got := tok.Tokenize([]string{"Lampe für Schreibtisch 灯带 café e27 led_strip RGB-Strip 2x"})
	want := []string{"lampe", "schreibtisch", "e27", "rgb", "strip"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %#v, want %#v", got, want)
	}
}

func TestTokenizeSplitsAtCombiningMarks(t *testing.T) {
	got := NewTokenizer(FullStopwords).Tokenize([]string{"cafe\u0301 lamp"})
	want := []string{"cafe", "lamp"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %#v, want %#v", got, want)
	}
}

func TestRankCountsMatchesRank(t *testing.T) {
	tokens := []string{"strip", "led", "led", "lamp", "strip"}
	counts := Count(tokens)
	if counts.Len() != 3 {
		t.Fatalf("unique = %d, want 3", counts.Len())
	}
	if got, want := RankCounts(counts, 2), Rank(tokens, 2); !reflect.DeepEqual(got, want) {
		t.Fatalf("RankCounts = %#v, want %#v", got, want)
	}
	want := []models.KeywordCount{{Token: "strip", Count: 2}, {Token: "led", Count: 2}}
	if got := RankCounts(counts, 2); !reflect.DeepEqual(got, want) {
		t.Fatalf("RankCounts = %#v, want %#v", got, want)
	}
}

func TestBasicStopwordsKeepsPronouns(t *testing.T) {
	got := NewTokenizer(BasicStopwords).Tokenize([]string{"this lamp will glow"})
	want := []string{"this", "lamp", "will", "glow"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %#v, want %#v", got, want)
	}
	if _, ok := FullStopwords["will"]; !ok {
		t.Fatal("full stopword set should contain 'will'")
	}
}

func TestRankKeywords(t *testing.T) {
	got := RankKeywords([]string{"LED Light Strip", "led strip new"}, DefaultTopN)
	want := []models.KeywordCount{
		{Token: "led", Count: 2},
		{Token: "strip", Count: 2},
		{Token: "light", Count: 1},
		{Token: "new", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RankKeywords = %#v, want %#v", got, want)
	}
}

func TestRankTopNAndTies(t *testing.T) {
	tokens := []string{"bulb", "lamp", "strip", "lamp", "strip", "bulb", "shade"}
	got := Rank(tokens, 2)
	want := []models.KeywordCount{{Token: "bulb", Count: 2}, {Token: "lamp", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Rank = %#v, want %#v", got, want)
	}
	if all := Rank(tokens, -1); len(all) != 4 {
		t.Fatalf("negative topN should keep all tokens, got %d", len(all))
	}
	if none := Rank(nil, 10); len(none) != 0 {
		t.Fatalf("empty input should rank nothing, got %#v", none)
	}
}

func TestRankCountsAreExactAndRepeatable(t *testing.T) {
	titles := []string{
		"Philips Hue White LED Bulb E27",
		"Philips Hue Color LED Strip",
		"Govee LED Strip Lights 10m RGB",
		"LED bulb E27 warm white 2 pack",
	}
	first := RankKeywords(titles, -1)
	second := RankKeywords(titles, -1)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking not repeatable:\n%#v\n%#v", first, second)
	}

	truth := map[string]int{}
	for _, tok := range NewTokenizer(FullStopwords).Tokenize(titles) {
		truth[tok]++
	}
	for _, kc := range first {
		if truth[kc.Token] != kc.Count {
			t.Errorf("%s: count %d, want %d", kc.Token, kc.Count, truth[kc.Token])
		}
	}
	if first[0] != (models.KeywordCount{Token: "led", Count: 4}) {
		t.Fatalf("top keyword = %#v", first[0])
	}
}
