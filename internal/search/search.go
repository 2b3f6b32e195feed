// Package search is the cached text-search façade over apartments,
// complaints, announcements and users.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/beesaferoot/ams-store/internal/cache"
	"github.com/beesaferoot/ams-store/internal/store"
	"github.com/beesaferoot/ams-store/model"
)

// Cache names, one per entity. Entries are keyed by the search term.
const (
	CacheApartments    = "apartmentSearchResults"
	CacheComplaints    = "complaintSearchResults"
	CacheAnnouncements = "announcementSearchResults"
	CacheUsers         = "userSearchResults"
)

// Index performs the uncached searches.
type Index interface {
	Apartments(ctx context.Context, term string) ([]store.Row, error)
	Complaints(ctx context.Context, term string) ([]store.Row, error)
	Announcements(ctx context.Context, term string) ([]store.Row, error)
	Users(ctx context.Context, term string) ([]store.Row, error)
}

type Service struct {
	index Index
	cache cache.Cache
	log   *slog.Logger
}

func New(index Index, c cache.Cache, log *slog.Logger) *Service {
	return &Service{index: index, cache: c, log: log.With("component", "search")}
}

// Apartments searches apartment names and descriptions.
func (s *Service) Apartments(ctx context.Context, term string) ([]store.Row, error) {
	return s.search(ctx, CacheApartments, term, s.index.Apartments)
}

// Complaints searches complaint titles and descriptions.
func (s *Service) Complaints(ctx context.Context, term string) ([]store.Row, error) {
	return s.search(ctx, CacheComplaints, term, s.index.Complaints)
}

// Announcements searches active, unexpired announcements.
func (s *Service) Announcements(ctx context.Context, term string) ([]store.Row, error) {
	return s.search(ctx, CacheAnnouncements, term, s.index.Announcements)
}

// Users matches active users by name or email.
func (s *Service) Users(ctx context.Context, term string) ([]store.Row, error) {
	return s.search(ctx, CacheUsers, term, s.index.Users)
}

// Global runs every entity search with the same term. Each part is cached
// on its own; the combined result is not.
func (s *Service) Global(ctx context.Context, term string) (map[string][]store.Row, error) {
	if err := validTerm(term); err != nil {
		return nil, err
	}
	s.log.Debug("global search", "term", term)
	out := make(map[string][]store.Row, 4)
	for _, part := range []struct {
		key    string
		search func(context.Context, string) ([]store.Row, error)
	}{
		{"apartments", s.Apartments},
		{"complaints", s.Complaints},
		{"announcements", s.Announcements},
		{"users", s.Users},
	} {
		rows, err := part.search(ctx, term)
		if err != nil {
			return nil, err
		}
		out[part.key] = rows
	}
	return out, nil
}

func (s *Service) search(ctx context.Context, name, term string, run func(context.Context, string) ([]store.Row, error)) ([]store.Row, error) {
	if err := validTerm(term); err != nil {
		return nil, err
	}
	s.log.Debug("searching", "cache", name, "term", term)
	return cache.Remember(ctx, s.cache, name, term, func(ctx context.Context) ([]store.Row, error) {
		rows, err := run(ctx, term)
		if err != nil {
			return nil, err
		}
		if rows == nil {
			rows = []store.Row{}
		}
		return rows, nil
	})
}

func validTerm(term string) error {
	if strings.TrimSpace(term) == "" {
		return &model.ValidationError{Field: "term", Message: "must not be blank"}
	}
	return nil
}
