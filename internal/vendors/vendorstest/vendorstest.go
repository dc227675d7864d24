// Package vendorstest holds tests shared by the vendors speaking the generic wire format.
package vendorstest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/toolagent/toolagent/internal/models"
)

// RunSetupTests checks that the vendor sets up with a key, and fails without one if requiresKey.
func RunSetupTests(t *testing.T, requiresKey bool, newVendor func(apiKey string) models.StreamCompleter) {
	t.Helper()

	t.Run("with_key", func(t *testing.T) {
		v := newVendor("some-key")
		if err := v.Setup(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if requiresKey {
		t.Run("no_key", func(t *testing.T) {
			v := newVendor("")
			if err := v.Setup(); err == nil {
				t.Fatal("expected error when api key is unset")
			}
		})
	}
}

// RunStreamTest sets up the vendor against a local server and expects the streamed tokens back.
func RunStreamTest(t *testing.T, newVendor func(url string) models.StreamCompleter) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", `{"choices":[{"delta":{"content":"# he"}}]}`)
		fmt.Fprintf(w, "data: %s\n\n", `{"choices":[{"delta":{"content":"llo"}}]}`)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(ts.Close)

	v := newVendor(ts.URL)
	if err := v.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ch, err := v.StreamCompletions(ctx, models.Chat{Messages: []models.Message{{Role: "user", Content: "hi"}}})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	var sb strings.Builder
	for ev := range ch {
		switch e := ev.(type) {
		case string:
			sb.WriteString(e)
		case error:
			t.Fatalf("unexpected error event: %v", e)
		}
	}
	if sb.String() != "# hello" {
		t.Fatalf("expected '# hello', got %q", sb.String())
	}
}
