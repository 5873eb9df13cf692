package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebovdev/piradio/internal/api"
	"github.com/glebovdev/piradio/internal/cache"
	"github.com/glebovdev/piradio/internal/station"
)

func testCatalog(t *testing.T, n int) *station.Catalog {
	t.Helper()
	stations := make([]station.Station, 0, n)
	for i := 0; i < n; i++ {
		stations = append(stations, station.Station{
			ID:        fmt.Sprintf("s%02d", i),
			Name:      fmt.Sprintf("Station %02d", n-i),
			StreamURL: fmt.Sprintf("http://stream.test/%d.mp3", i),
		})
	}
	catalog, err := station.NewCatalog(stations)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog
}

func pngBytes(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: 0, G: 200, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCatalogAccess(t *testing.T) {
	s := NewStationService(testCatalog(t, 3), api.NewClient(""), nil)

	if s.StationCount() != 3 {
		t.Errorf("StationCount() = %d, want 3", s.StationCount())
	}
	if got := s.GetStation(1); got == nil || got.ID != "s01" {
		t.Errorf("GetStation(1) = %v, want s01", got)
	}
	if s.GetStation(-1) != nil || s.GetStation(3) != nil {
		t.Error("GetStation() out of bounds should return nil")
	}
	if s.FindIndexByID("s02") != 2 {
		t.Errorf("FindIndexByID(s02) = %d, want 2", s.FindIndexByID("s02"))
	}
	if s.FindIndexByID("missing") != -1 {
		t.Error("FindIndexByID(missing) should return -1")
	}
	if ids := s.GetValidStationIDs(); !ids["s00"] || ids["missing"] {
		t.Errorf("GetValidStationIDs() = %v", ids)
	}
}

func TestGetStationReturnsCopy(t *testing.T) {
	s := NewStationService(testCatalog(t, 2), api.NewClient(""), nil)

	st := s.GetStation(0)
	st.Name = "changed"

	if s.GetStation(0).Name == "changed" {
		t.Error("GetStation() should return a copy")
	}
}

func TestFavoritesSortedByName(t *testing.T) {
	catalog, err := station.NewCatalog([]station.Station{
		{ID: "wdr2", Name: "WDR 2", StreamURL: "http://a"},
		{ID: "einslive", Name: "1LIVE", StreamURL: "http://b"},
		{ID: "antenne", Name: "antenne bayern", StreamURL: "http://c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := NewStationService(catalog, api.NewClient(""), nil)

	got := s.Favorites([]string{"wdr2", "gone", "antenne", "einslive"})

	expected := []string{"einslive", "antenne", "wdr2"}
	if len(got) != len(expected) {
		t.Fatalf("Favorites() returned %d stations, want %d", len(got), len(expected))
	}
	for i, id := range expected {
		if got[i].ID != id {
			t.Errorf("Favorites()[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{18, 2},
		{20, 3},
	}

	for _, tt := range tests {
		if got := PageCount(tt.n); got != tt.expected {
			t.Errorf("PageCount(%d) = %d, want %d", tt.n, got, tt.expected)
		}
	}
}

func TestFavoritesPage(t *testing.T) {
	catalog := testCatalog(t, 20)
	s := NewStationService(catalog, api.NewClient(""), nil)

	ids := make([]string, 0, 20)
	for _, st := range catalog.All() {
		ids = append(ids, st.ID)
	}

	tests := []struct {
		name         string
		page         int
		expectedPage int
		expectedLen  int
	}{
		{"first page", 0, 0, 9},
		{"second page", 1, 1, 9},
		{"last page partial", 2, 2, 2},
		{"past the end clamps", 7, 2, 2},
		{"negative clamps", -3, 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, idx, pages := s.FavoritesPage(ids, tt.page)
			if pages != 3 {
				t.Errorf("pages = %d, want 3", pages)
			}
			if idx != tt.expectedPage {
				t.Errorf("page index = %d, want %d", idx, tt.expectedPage)
			}
			if len(page) != tt.expectedLen {
				t.Errorf("len(page) = %d, want %d", len(page), tt.expectedLen)
			}
		})
	}

	first, _, _ := s.FavoritesPage(ids, 0)
	if first[0].Name != "Station 01" {
		t.Errorf("First favorite = %q, want Station 01", first[0].Name)
	}
}

func TestFavoritesPageEmpty(t *testing.T) {
	s := NewStationService(testCatalog(t, 3), api.NewClient(""), nil)

	page, idx, pages := s.FavoritesPage(nil, 0)
	if len(page) != 0 || idx != 0 || pages != 1 {
		t.Errorf("FavoritesPage(nil) = (%d, %d, %d), want (0, 0, 1)", len(page), idx, pages)
	}
}

func TestLoadLogoNoURL(t *testing.T) {
	s := NewStationService(testCatalog(t, 1), api.NewClient(""), nil)

	if _, err := s.LoadLogo(station.Station{ID: "x"}); !errors.Is(err, ErrNoLogo) {
		t.Errorf("LoadLogo() error = %v, want ErrNoLogo", err)
	}
}

func TestLoadLogoPrefersProxy(t *testing.T) {
	logo := pngBytes(t, 16)
	var proxyHits, directHits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo":
			proxyHits.Add(1)
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(logo)
		default:
			directHits.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	s := NewStationService(testCatalog(t, 1), api.NewClient(server.URL), nil)

	img, err := s.LoadLogo(station.Station{ID: "x", LogoURL: server.URL + "/direct.png"})
	if err != nil {
		t.Fatalf("LoadLogo() error = %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("Logo width = %d, want 16", img.Bounds().Dx())
	}
	if proxyHits.Load() != 1 || directHits.Load() != 0 {
		t.Errorf("proxy hits = %d, direct hits = %d, want 1 and 0", proxyHits.Load(), directHits.Load())
	}
}

func TestLoadLogoFallsBackToDirect(t *testing.T) {
	logo := pngBytes(t, 8)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logo":
			w.WriteHeader(http.StatusBadGateway)
		case "/direct.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(logo)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	s := NewStationService(testCatalog(t, 1), api.NewClient(server.URL), nil)

	if _, err := s.LoadLogo(station.Station{ID: "x", LogoURL: server.URL + "/direct.png"}); err != nil {
		t.Fatalf("LoadLogo() error = %v", err)
	}
}

func TestLoadLogoInvalidImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("not a valid image"))
	}))
	defer server.Close()

	s := NewStationService(testCatalog(t, 1), api.NewClient(""), nil)

	_, err := s.LoadLogo(station.Station{ID: "x", LogoURL: server.URL + "/bad.png"})
	if err == nil {
		t.Fatal("LoadLogo() should fail for invalid image data")
	}
	if !strings.Contains(err.Error(), "decode") {
		t.Errorf("LoadLogo() error = %v, want decode error", err)
	}
}

func TestLoadLogoUsesCache(t *testing.T) {
	logo := pngBytes(t, 12)
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(logo)
	}))
	defer server.Close()

	logoCache := cache.New(t.TempDir(), time.Hour)
	s := NewStationService(testCatalog(t, 1), api.NewClient(""), logoCache)
	st := station.Station{ID: "x", LogoURL: server.URL + "/logo.png"}

	if _, err := s.LoadLogo(st); err != nil {
		t.Fatalf("First LoadLogo() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := logoCache.Get(st.LogoURL); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Logo was not written to the cache")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := s.LoadLogo(st); err != nil {
		t.Fatalf("Second LoadLogo() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("HTTP hits = %d, want 1", hits.Load())
	}
}

func TestLoadLogoCoalescesConcurrentCalls(t *testing.T) {
	logo := pngBytes(t, 4)
	var hits atomic.Int32
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		<-release
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(logo)
	}))
	defer server.Close()

	s := NewStationService(testCatalog(t, 1), api.NewClient(""), nil)
	st := station.Station{ID: "x", LogoURL: server.URL + "/logo.png"}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.LoadLogo(st); err != nil {
				t.Errorf("LoadLogo() error = %v", err)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if hits.Load() != 1 {
		t.Errorf("HTTP hits = %d, want 1 shared download", hits.Load())
	}
}
