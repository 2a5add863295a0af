package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"listing-insights/pkg/logger"
)

func TestNewBackend(t *testing.T) {
	if _, err := New(Config{Backend: "none"}, logger.Discard()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("none: want ErrUnavailable, got %v", err)
	}
	if _, err := New(Config{Backend: "deepl"}, logger.Discard()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("deepl without key: want ErrUnavailable, got %v", err)
	}
	b, err := New(Config{Backend: "DeepL", DeepLAuthKey: "k:fx"}, logger.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := b.(*DeepL); !ok || d.baseURL != deeplFreeURL {
		t.Fatalf("want free DeepL endpoint, got %#v", b)
	}
	if d := NewDeepL("k", "", time.Second); d.baseURL != deeplProURL {
		t.Fatalf("pro key should use %s, got %s", deeplProURL, d.baseURL)
	}
	if b, err := New(Config{Backend: "lingva"}, logger.Discard()); err != nil || b == nil {
		t.Fatalf("lingva: %v", err)
	}
}

func TestDeepLTranslateBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/translate" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "DeepL-Auth-Key secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req deeplRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.TargetLang != "ZH" || len(req.Text) != 1 || req.Text[0] != "lamp\nshade" {
			http.Error(w, "unexpected body", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"translations": []map[string]string{{"detected_source_language": "EN", "text": "灯\n灯罩"}},
		})
	}))
	defer ts.Close()

	got, err := NewDeepL("secret", ts.URL, time.Second).TranslateBatch(context.Background(), []string{"lamp", "shade"}, TargetChinese)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"灯", "灯罩"}) {
		t.Fatalf("got %#v", got)
	}

	if _, err := NewDeepL("wrong", ts.URL, time.Second).TranslateBatch(context.Background(), []string{"lamp"}, TargetChinese); err == nil {
		t.Fatal("expected error for rejected key")
	}
}

func TestLingvaTranslateBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/v1/auto/zh/") {
			http.NotFound(w, r)
			return
		}
		text := strings.TrimPrefix(r.URL.Path, "/api/v1/auto/zh/")
		if text != "lamp\nshade" {
			http.Error(w, "unexpected text "+text, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(lingvaResponse{Translation: "灯\n灯罩"})
	}))
	defer ts.Close()

	got, err := NewLingva(ts.URL, time.Second).TranslateBatch(context.Background(), []string{"lamp", "shade"}, TargetChinese)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"灯", "灯罩"}) {
		t.Fatalf("got %#v", got)
	}
}
