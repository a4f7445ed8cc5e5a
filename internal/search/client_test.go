package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gyarumi/internal/domain"
)

func TestSearchParsesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.Header.Get("X-Goog-Api-Key") != "k" || q.Has("key") {
			t.Errorf("api key must travel in the header, got query %v", q)
		}
		if q.Get("cx") != "cx" || q.Get("q") != "渋谷 カフェ" || q.Get("num") != "3" {
			t.Errorf("unexpected query %v", q)
		}
		_, _ = w.Write([]byte(`{"items":[{"title":" Cafe A ","link":"https://a.example","snippet":"line1\nline2"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "cx", 0, time.Second)
	got, err := c.Search(context.Background(), "渋谷 カフェ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Cafe A" || got[0].URL != "https://a.example" || got[0].Snippet != "line1 line2" {
		t.Fatalf("unexpected results %+v", got)
	}
}

func TestSearchNoItemsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchInformation":{"totalResults":"0"}}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "k", "cx", 5, time.Second).Search(context.Background(), "nothing")
	if err != nil || len(got) != 0 {
		t.Fatalf("got=%v err=%v, want empty", got, err)
	}
}

func TestSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "k", "cx", 5, time.Second).Search(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestSearchTransportErrorOmitsKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, "SECRET-API-KEY", "cx1", 3, time.Second).Search(context.Background(), "渋谷")
	if err == nil {
		t.Fatalf("expected error from closed server")
	}
	if strings.Contains(err.Error(), "SECRET-API-KEY") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewClient("", "", "cx", 3, 0)
	if c.Enabled() {
		t.Fatalf("client without key should be disabled")
	}
	got, err := c.Search(context.Background(), "渋谷")
	if got != nil || err != nil {
		t.Fatalf("got=%v err=%v, want nil,nil", got, err)
	}
}

func TestBuildQuery(t *testing.T) {
	now := time.Date(2025, 10, 31, 16, 0, 0, 0, time.UTC) // 2025-11-01 01:00 JST
	tests := []struct {
		name  string
		msg   string
		flags domain.IntentFlags
		want  string
	}{
		{name: "limited with brand", msg: "スタバの限定なに？", flags: domain.IntentFlags{AskingLimitedTime: true, Brand: "スターバックス"}, want: "スターバックス 期間限定 新作 2025年11月"},
		{name: "limited without brand", msg: "限定コスメ", flags: domain.IntentFlags{AskingLimitedTime: true}, want: "限定コスメ 期間限定 新作 2025年11月"},
		{name: "place with brand alias", msg: "スタバどこがいい？", flags: domain.IntentFlags{AskingPlace: true, Brand: "スターバックス"}, want: "スターバックス スタバどこがいい？"},
		{name: "place", msg: " 渋谷のカフェどこ ", flags: domain.IntentFlags{AskingPlace: true}, want: "渋谷のカフェどこ"},
		{name: "realtime", msg: "今日の天気", flags: domain.IntentFlags{NeedsRealtime: true}, want: "今日の天気"},
		{name: "none", msg: "やほー", flags: domain.IntentFlags{}, want: ""},
	}
	for _, tt := range tests {
		if got := BuildQuery(tt.msg, tt.flags, now); got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
