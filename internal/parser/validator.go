
package parser

import (
	"regexp"
	"unicode/utf8"
)

const (
	minTitleLen   = 5
	maxTitleLen   = 300
	shortTitleLen = 15
)

// Navigation, filter and condition labels that listing pages render with
// the same markup as real item titles.
var chromeRe = regexp.MustCompile(`(?i)^(?:` +
	`Shop by category|Daily Deals|Brand Outlet|Help & Contact|Sell|Watchlist|My eBay|` +
	`Notification|Cart|Sign in|Register|Advanced|Search|Categories|Motors|Fashion|` +
	`Electronics|Collectibles|Home & Garden|Sporting Goods|Toys & Hobbies|` +
	`Business & Industrial|Music|Deals & Savings|` +
	`See all|View all|More|` +
	`Previous|Next|Page \d+|` +
	`Sort|Filter|Refine|` +
	`Buy It Now|Auction|Best Offer|` +
	`Free shipping|Fast 'N Free|` +
	`Condition|Price|Time|Distance|` +
	`New|Used|Refurbished|For parts` +
	`)$`)

var (
	digitsOnlyRe  = regexp.MustCompile(`^\p{Nd}+$`)
	symbolsOnlyRe = regexp.MustCompile(`^[^\p{L}\p{N}_\s\p{Z}]+$`)
)

// Short titles must carry at least one of these to count as a product.
var (
	productWordRe = regexp.MustCompile(`(?i)\b(?:` +
		`new|used|vintage|original|genuine|authentic|brand|` +
		`for|with|in|on|by|from|` +
		`size|color|model|type|style|` +
		`set|kit|pack|bundle|lot` +
		`)\b`)
	digitRe    = regexp.MustCompile(`\p{Nd}`)
	upperRunRe = regexp.MustCompile(`[A-Z]{2,}`) // case-sensitive; ignoring case would pass any two letters
)

// IsValidTitle reports whether text looks like a product title rather than
// page chrome.
func IsValidTitle(text string) bool {
	if text == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n <= minTitleLen || n >= maxTitleLen {
		return false
	}
	if chromeRe.MatchString(text) || digitsOnlyRe.MatchString(text) || symbolsOnlyRe.MatchString(text) {
		return false
	}
	if n < shortTitleLen {
		return productWordRe.MatchString(text) ||
			digitRe.MatchString(text) ||
			upperRunRe.MatchString(text)
	}
	return true
}
