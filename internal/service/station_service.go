// Package service provides catalog access, favorites paging and logo loading
// for the terminal UI.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sort"
	"strings"
	"time"

	"github.com/glebovdev/piradio/internal/api"
	"github.com/glebovdev/piradio/internal/cache"
	"github.com/glebovdev/piradio/internal/station"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	logoLoadTimeout = 15 * time.Second

	// FavoritesPerPage is the number of favorite buttons shown at once.
	FavoritesPerPage = 9
)

var ErrNoLogo = errors.New("station has no logo")

// StationService wraps the catalog with the lookups the UI needs.
type StationService struct {
	catalog   *station.Catalog
	apiClient *api.Client
	logoCache *cache.Cache
	logos     singleflight.Group
}

// NewStationService creates a StationService. logoCache may be nil, in which
// case logos are fetched on every request.
func NewStationService(catalog *station.Catalog, apiClient *api.Client, logoCache *cache.Cache) *StationService {
	if logoCache != nil {
		go func() {
			if err := logoCache.CleanExpired(); err != nil {
				log.Debug().Err(err).Msg("Failed to clean expired logos")
			}
		}()
	}

	return &StationService{
		catalog:   catalog,
		apiClient: apiClient,
		logoCache: logoCache,
	}
}

func (s *StationService) Catalog() *station.Catalog {
	return s.catalog
}

func (s *StationService) Stations() []station.Station {
	return s.catalog.All()
}

func (s *StationService) StationCount() int {
	return s.catalog.Len()
}

// GetStation returns a copy of the station at the given index, or nil if out of bounds.
func (s *StationService) GetStation(index int) *station.Station {
	st, ok := s.catalog.At(index)
	if !ok {
		return nil
	}
	return &st
}

func (s *StationService) FindIndexByID(stationID string) int {
	return s.catalog.IndexOf(stationID)
}

func (s *StationService) GetValidStationIDs() map[string]bool {
	return s.catalog.ValidIDs()
}

// Favorites resolves ids to stations sorted by name. Unknown ids are skipped.
func (s *StationService) Favorites(ids []string) []station.Station {
	favorites := make([]station.Station, 0, len(ids))
	for _, id := range ids {
		if st, ok := s.catalog.Get(id); ok {
			favorites = append(favorites, st)
		}
	}

	sort.SliceStable(favorites, func(i, j int) bool {
		return strings.ToLower(favorites[i].Name) < strings.ToLower(favorites[j].Name)
	})
	return favorites
}

// PageCount returns how many favorite pages n favorites need; never less than one.
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + FavoritesPerPage - 1) / FavoritesPerPage
}

// FavoritesPage returns page (0-based, clamped to the valid range) of the
// sorted favorites together with the clamped page index and the page count.
func (s *StationService) FavoritesPage(ids []string, page int) ([]station.Station, int, int) {
	favorites := s.Favorites(ids)
	pages := PageCount(len(favorites))
	page = max(0, min(pages-1, page))

	start := page * FavoritesPerPage
	end := min(len(favorites), start+FavoritesPerPage)
	if start >= end {
		return []station.Station{}, page, pages
	}
	return favorites[start:end], page, pages
}

// LoadLogo returns the decoded logo of st. Concurrent calls for the same logo
// share one download. The backend logo proxy is tried before the original address.
func (s *StationService) LoadLogo(st station.Station) (image.Image, error) {
	if st.LogoURL == "" {
		return nil, ErrNoLogo
	}

	if s.logoCache != nil {
		if data, ok := s.logoCache.Get(st.LogoURL); ok {
			if img, err := decodeImage(data); err == nil {
				log.Debug().Str("url", st.LogoURL).Msg("Logo loaded from cache")
				return img, nil
			}
		}
	}

	v, err, shared := s.logos.Do(st.LogoURL, func() (interface{}, error) {
		return s.fetchLogo(st.LogoURL)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("url", st.LogoURL).Msg("Logo download shared")
	}
	return v.(image.Image), nil
}

func (s *StationService) fetchLogo(logoURL string) (image.Image, error) {
	ctx, cancel := context.WithTimeout(context.Background(), logoLoadTimeout)
	defer cancel()

	var errs []error
	for _, address := range s.logoAddresses(logoURL) {
		data, err := s.apiClient.FetchLogo(ctx, address)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		img, err := decodeImage(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", address, err))
			continue
		}

		if s.logoCache != nil {
			go func() {
				if err := s.logoCache.Put(logoURL, data); err != nil {
					log.Debug().Err(err).Str("url", logoURL).Msg("Failed to cache logo")
				}
			}()
		}
		return img, nil
	}

	return nil, fmt.Errorf("failed to load logo: %w", errors.Join(errs...))
}

func (s *StationService) logoAddresses(logoURL string) []string {
	if proxied := s.apiClient.LogoURL(logoURL); proxied != "" {
		return []string{proxied, logoURL}
	}
	return []string{logoURL}
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
