package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubResolver struct {
	address string
	err     error
	calls   int
}

func (s *stubResolver) Reverse(context.Context, float64, float64) (string, error) {
	s.calls++
	return s.address, s.err
}

func TestLocateFallbacks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name     string
		resolver *stubResolver
		coords   *Coordinates
		want     string
		calls    int
	}{
		{"nil coordinates", &stubResolver{address: "Makati"}, nil, UnknownLocation, 0},
		{"zero coordinates", &stubResolver{address: "Makati"}, &Coordinates{}, UnknownLocation, 0},
		{"zero latitude", &stubResolver{address: "Makati"}, &Coordinates{Longitude: 121}, UnknownLocation, 0},
		{"resolver error", &stubResolver{err: errors.New("quota")}, &Coordinates{14.5, 121}, UnavailableLocation, 1},
		{"blank address", &stubResolver{address: "  "}, &Coordinates{14.5, 121}, UnknownLocation, 1},
		{"resolved", &stubResolver{address: "Ayala Ave, Makati"}, &Coordinates{14.5, 121}, "Ayala Ave, Makati", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Locate(ctx, tt.resolver, tt.coords, nil); got != tt.want {
				t.Fatalf("Locate() = %q, want %q", got, tt.want)
			}
			if tt.resolver.calls != tt.calls {
				t.Fatalf("resolver called %d times, want %d", tt.resolver.calls, tt.calls)
			}
		})
	}
}

func TestLocateWithoutResolver(t *testing.T) {
	if got := Locate(context.Background(), nil, &Coordinates{14.5, 121}, nil); got != UnknownLocation {
		t.Fatalf("Locate() = %q", got)
	}
}

func geocodeServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("key") != "test-key":
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`))
		case strings.HasPrefix(q.Get("latlng"), "1,"):
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		case strings.HasPrefix(q.Get("latlng"), "2,"):
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`upstream exploded`))
		case q.Get("language") != "en-PH" || q.Get("region") != "ph":
			w.WriteHeader(http.StatusBadRequest)
		default:
			if !strings.Contains(q.Get("latlng"), "14.55") || !strings.Contains(q.Get("latlng"), "121.02") {
				_, _ = w.Write([]byte(`{"status":"INVALID_REQUEST","results":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"Ayala Avenue, Makati, Philippines"},{"formatted_address":"Makati, Philippines"}]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGoogleResolver(t *testing.T) {
	server := geocodeServer(t)

	resolver, err := NewGoogleResolver("test-key", server.URL, "en-PH", "ph", time.Second)
	if err != nil {
		t.Fatalf("NewGoogleResolver: %v", err)
	}
	got, err := resolver.Reverse(context.Background(), 14.55, 121.02)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if got != "Ayala Avenue, Makati, Philippines" {
		t.Fatalf("Reverse() = %q", got)
	}

	got, err = resolver.Reverse(context.Background(), 1, 1)
	if err != nil || got != "" {
		t.Fatalf("no match = %q, %v", got, err)
	}
	if loc := Locate(context.Background(), resolver, &Coordinates{Latitude: 1, Longitude: 1}, nil); loc != UnknownLocation {
		t.Fatalf("Locate(no match) = %q", loc)
	}
}

func TestGoogleResolverErrors(t *testing.T) {
	server := geocodeServer(t)

	denied, err := NewGoogleResolver("wrong-key", server.URL, "en-PH", "ph", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := denied.Reverse(context.Background(), 14.55, 121.02); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("denied err = %v", err)
	}

	resolver, err := NewGoogleResolver("test-key", server.URL, "en-PH", "ph", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resolver.Reverse(context.Background(), 2, 2); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("server error err = %v", err)
	}
	if loc := Locate(context.Background(), resolver, &Coordinates{Latitude: 2, Longitude: 2}, nil); loc != UnavailableLocation {
		t.Fatalf("Locate(server error) = %q", loc)
	}

	if _, err := NewGoogleResolver("", "", "en-PH", "ph", time.Second); err == nil {
		t.Fatal("NewGoogleResolver accepted an empty API key")
	}
}
