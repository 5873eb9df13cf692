package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func setupTestServer(handler http.HandlerFunc) (*httptest.Server, *Client) {
	server := httptest.NewServer(handler)
	return server, NewClient(server.URL)
}

func TestNowPlaying(t *testing.T) {
	const stream = "https://wdr-1live-live.icecast.wdr.de/wdr/1live/live/mp3/128/stream.mp3"

	server, client := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/now-playing" {
			t.Errorf("Expected path /now-playing, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("url"); got != stream {
			t.Errorf("Expected url query %q, got %q", stream, got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"Artist - Song","artist":"Artist","song":"Song","bitrate":128,"server_name":"1LIVE","show":"Morning"}`))
	})
	defer server.Close()

	np, err := client.NowPlaying(context.Background(), stream)
	if err != nil {
		t.Fatalf("NowPlaying() error = %v", err)
	}

	expected := NowPlaying{Title: "Artist - Song", Artist: "Artist", Song: "Song", Bitrate: 128, ServerName: "1LIVE", Show: "Morning"}
	if *np != expected {
		t.Errorf("NowPlaying() = %+v, want %+v", *np, expected)
	}
}

func TestNowPlayingCamelServerName(t *testing.T) {
	server, client := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"serverName":"WDR 2"}`))
	})
	defer server.Close()

	np, err := client.NowPlaying(context.Background(), "http://example.com/s.mp3")
	if err != nil {
		t.Fatalf("NowPlaying() error = %v", err)
	}
	if np.ServerName != "WDR 2" {
		t.Errorf("ServerName = %q, want %q", np.ServerName, "WDR 2")
	}
}

func TestNowPlayingErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := setupTestServer(tt.handler)
			defer server.Close()

			if _, err := client.NowPlaying(context.Background(), "http://example.com/s.mp3"); err == nil {
				t.Error("NowPlaying() should return error")
			}
		})
	}
}

func TestNowPlayingWithoutBackend(t *testing.T) {
	client := NewClient("")

	_, err := client.NowPlaying(context.Background(), "http://example.com/s.mp3")
	if err != ErrNoBackend {
		t.Errorf("NowPlaying() error = %v, want ErrNoBackend", err)
	}
}

func TestNowPlayingCancelledContext(t *testing.T) {
	server, client := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.NowPlaying(ctx, "http://example.com/s.mp3"); err == nil {
		t.Error("NowPlaying() with cancelled context should return error")
	}
}

func TestProxyStreamURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		primary  string
		expected string
	}{
		{
			name:     "escapes primary",
			base:     "http://backend:8000",
			primary:  "https://stream.example.com/live.mp3?x=1&y=2",
			expected: "http://backend:8000/proxy-stream?url=" + url.QueryEscape("https://stream.example.com/live.mp3?x=1&y=2"),
		},
		{
			name:     "trailing slash trimmed",
			base:     "http://backend:8000/api/",
			primary:  "http://a/b",
			expected: "http://backend:8000/api/proxy-stream?url=http%3A%2F%2Fa%2Fb",
		},
		{
			name:     "no backend",
			base:     "",
			primary:  "http://a/b",
			expected: "",
		},
		{
			name:     "empty primary",
			base:     "http://backend",
			primary:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewClient(tt.base).ProxyStreamURL(tt.primary)
			if got != tt.expected {
				t.Errorf("ProxyStreamURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLogoURL(t *testing.T) {
	got := NewClient("http://backend").LogoURL("https://example.com/logo.png")
	if !strings.HasPrefix(got, "http://backend/logo?url=") {
		t.Errorf("LogoURL() = %q, want /logo prefix", got)
	}
	if NewClient("").LogoURL("https://example.com/logo.png") != "" {
		t.Error("LogoURL() without backend should be empty")
	}
}

func TestFetchLogo(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

	server, client := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		case "/empty.png":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer server.Close()

	data, err := client.FetchLogo(context.Background(), server.URL+"/ok.png")
	if err != nil {
		t.Fatalf("FetchLogo() error = %v", err)
	}
	if string(data) != string(png) {
		t.Errorf("FetchLogo() = %v, want %v", data, png)
	}

	if _, err := client.FetchLogo(context.Background(), server.URL+"/empty.png"); err == nil {
		t.Error("FetchLogo() should fail on empty body")
	}
	if _, err := client.FetchLogo(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("FetchLogo() should fail on 404")
	}
}

func TestNowPlayingTrack(t *testing.T) {
	tests := []struct {
		np       NowPlaying
		expected string
	}{
		{NowPlaying{Title: "T", Artist: "A", Song: "S"}, "A - S"},
		{NowPlaying{Title: "T", Artist: "A"}, "T"},
		{NowPlaying{Title: "Live"}, "Live"},
		{NowPlaying{}, ""},
	}

	for _, tt := range tests {
		if got := tt.np.Track(); got != tt.expected {
			t.Errorf("%+v.Track() = %q, want %q", tt.np, got, tt.expected)
		}
	}
}
