// Command listingctl scrapes listing pages and analyzes their titles from
// the command line.
//
// Usage:
//
//	listingctl scrape --url "https://www.ebay.com/sch/i.html?_nkw=led+lamp"
//	listingctl scrape --input urls.csv --output titles.ndjson
//	listingctl analyze --input titles.txt --profile simple
package main

func main() {
	Execute()
}
