package intent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientClassify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/intent/classify" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(Classify(in["text"]))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL+"/", time.Second).Classify(context.Background(), "昨日何してた？")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AskingDailyLife || got.TimeReference != TimeYesterday {
		t.Fatalf("flags=%+v", got)
	}
}

func TestClientErrors(t *testing.T) {
	if _, err := NewClient("", 0).Classify(context.Background(), "x"); !errors.Is(err, ErrNoServer) {
		t.Fatalf("err=%v, want ErrNoServer", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
	}))
	defer srv.Close()
	_, err := NewClient(srv.URL, time.Second).Classify(context.Background(), " ")
	if err == nil || !strings.Contains(err.Error(), "text is required") {
		t.Fatalf("err=%v, want server message surfaced", err)
	}
}
