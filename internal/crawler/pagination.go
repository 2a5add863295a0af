package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageParam is the query parameter listing pages use for the page number.
const DefaultPageParam = "_pgn"

var ErrHostMismatch = errors.New("url does not belong to the target site")

// PageURL returns the URL of page n of the listing that starts at start.
// Page 1 is start itself; later pages overwrite param and keep every other
// query parameter.
func PageURL(start string, n int, param string) (string, error) {
	if n <= 1 {
		return start, nil
	}
	u, err := url.Parse(start)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", start, err)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		q = lenientQuery(u.RawQuery)
	}
	q.Set(param, strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// CheckHost verifies rawURL is an absolute URL whose host contains marker.
func CheckHost(rawURL, marker string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if !strings.Contains(strings.ToLower(u.Host), strings.ToLower(marker)) {
		return fmt.Errorf("%w: host %s", ErrHostMismatch, u.Host)
	}
	return nil
}

// lenientQuery parses pairs split on '&' only. Semicolons stay in values and
// a '%' that does not start a valid escape is kept literally.
func lenientQuery(raw string) url.Values {
	q := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		q.Add(unescapeLenient(k), unescapeLenient(v))
	}
	return q
}

func unescapeLenient(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			hi, lo := unhex(s[i+1]), unhex(s[i+2])
			b.WriteByte(hi<<4 | lo)
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
