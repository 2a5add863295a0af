package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultLingvaURL = "https://translate.plausibility.cloud"

// Lingva is a client for a Lingva Translate instance. It needs no key.
type Lingva struct {
	baseURL    string
	httpClient *http.Client
}

func NewLingva(baseURL string, timeout time.Duration) *Lingva {
	if baseURL == "" {
		baseURL = defaultLingvaURL
	}
	return &Lingva{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lingvaResponse struct {
	Translation string `json:"translation"`
}

// lingvaLang maps DeepL style codes onto Lingva's.
func lingvaLang(target string) string {
	switch strings.ToUpper(target) {
	case TargetEnglish, "EN", "EN-GB":
		return "en"
	case TargetChinese, "ZH-HANS":
		return "zh"
	default:
		return strings.ToLower(target)
	}
}

func (l *Lingva) TranslateBatch(ctx context.Context, tokens []string, target string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	reqURL := fmt.Sprintf("%s/api/v1/auto/%s/%s", l.baseURL, lingvaLang(target), url.PathEscape(joinBatch(tokens)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %d", l.baseURL, resp.StatusCode)
	}

	var result lingvaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return splitBatch(result.Translation), nil
}
