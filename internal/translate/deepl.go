package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	deeplFreeURL = "https://api-free.deepl.com"
	deeplProURL  = "https://api.deepl.com"
)

// DeepL talks to the DeepL v2 REST API.
type DeepL struct {
	authKey    string
	baseURL    string
	httpClient *http.Client
}

// NewDeepL picks the free endpoint for ":fx" keys unless baseURL is set.
func NewDeepL(authKey, baseURL string, timeout time.Duration) *DeepL {
	if baseURL == "" {
		baseURL = deeplProURL
		if strings.HasSuffix(authKey, ":fx") {
			baseURL = deeplFreeURL
		}
	}
	return &DeepL{
		authKey:    authKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type deeplRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (d *DeepL) TranslateBatch(ctx context.Context, tokens []string, target string) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(deeplRequest{Text: []string{joinBatch(tokens)}, TargetLang: target})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v2/translate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.authKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepl returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result deeplResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode deepl response: %w", err)
	}
	if len(result.Translations) == 0 {
		return nil, errors.New("deepl returned no translations")
	}
	return splitBatch(result.Translations[0].Text), nil
}
