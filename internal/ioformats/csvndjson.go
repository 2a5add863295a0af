
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ReadURLs reads start URLs from a CSV (header with "url") or NDJSON file.
func ReadURLs(path string) ([]string, error) { return ReadField(path, "url") }

// ReadTitles reads listing titles from a CSV (header with "title"), NDJSON
// or plain text file with one title per line.
func ReadTitles(path string) ([]string, error) { return ReadField(path, "title") }

// ReadField reads one value per record. CSV files need a header naming
// field; NDJSON lines may be raw text, a JSON string or an object carrying
// field. If ext cannot be determined, tries CSV first then NDJSON.
func ReadField(path, field string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path, field)
	case ".ndjson", ".jsonl", ".txt":
		return readNDJSON(path, field)
	default:
		if vals, err := readCSV(path, field); err == nil && len(vals) > 0 {
			return vals, nil
		}
		return readNDJSON(path, field)
	}
}

func readCSV(path, field string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), field) {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("csv must contain a '%s' header column", field)
	}
	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			v := strings.TrimSpace(row[col])
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func readNDJSON(path, field string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "{"):
			var obj map[string]any
			if err := json.Unmarshal([]byte(line), &obj); err == nil {
				if s, ok := obj[field].(string); ok && s != "" {
					out = append(out, s)
					continue
				}
			}
		case strings.HasPrefix(line, `"`):
			var s string
			if err := json.Unmarshal([]byte(line), &s); err == nil && s != "" {
				out = append(out, s)
				continue
			}
		}
		// fallback: treat whole line as the value
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %ss found in %s", field, path)
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
