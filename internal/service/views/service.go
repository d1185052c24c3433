// Package views tracks which architectural views a location already has
// across the pages of a document.
package views

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/heartmarshall/takeoff-backend/internal/domain"
)

type locationViewReader interface {
	ListLocationViews(ctx context.Context, locationID, documentID int64) ([]domain.LocationView, error)
}

// Tracker reports view collisions for locations. It never blocks a save.
type Tracker struct {
	views locationViewReader
	log   *slog.Logger
}

// NewTracker creates a new Tracker.
func NewTracker(log *slog.Logger, views locationViewReader) *Tracker {
	return &Tracker{
		views: views,
		log:   log.With("service", "views"),
	}
}

// GetLocationViewKeys returns the page numbers each view key appears on for a
// location within a document. Page numbers are unique and ascending.
func (t *Tracker) GetLocationViewKeys(ctx context.Context, locationID, documentID int64) (map[string][]int, error) {
	return t.viewKeys(ctx, locationID, documentID, 0)
}

// viewKeys is GetLocationViewKeys without the views of annotation excludeID.
func (t *Tracker) viewKeys(ctx context.Context, locationID, documentID, excludeID int64) (map[string][]int, error) {
	list, err := t.views.ListLocationViews(ctx, locationID, documentID)
	if err != nil {
		return nil, fmt.Errorf("list location views: %w", err)
	}

	keys := make(map[string][]int, len(list))
	for _, v := range list {
		if excludeID != 0 && v.AnnotationID == excludeID {
			continue
		}
		key, ok := domain.ViewKey(v.View)
		if !ok {
			t.log.DebugContext(ctx, "skipping view without key",
				slog.Int64("annotation_id", v.AnnotationID),
				slog.String("view_type", string(v.View.Type)),
			)
			continue
		}
		keys[key] = appendUnique(keys[key], v.PageNumber)
	}
	for k := range keys {
		sort.Ints(keys[k])
	}
	return keys, nil
}

// CheckDuplicate returns a warning notice when the location already has view
// on some page of the document. Detail views never collide. The views of
// annotation excludeID are ignored so an updated annotation does not collide
// with itself; pass 0 for a new annotation.
func (t *Tracker) CheckDuplicate(ctx context.Context, locationID, documentID, excludeID int64, view domain.View) (*domain.Notice, error) {
	key, ok := domain.ViewKey(view)
	if !ok || domain.ViewKeyAllowsMany(key) {
		return nil, nil
	}

	keys, err := t.viewKeys(ctx, locationID, documentID, excludeID)
	if err != nil {
		return nil, err
	}

	pages := keys[key]
	if len(pages) == 0 {
		return nil, nil
	}

	return &domain.Notice{
		Kind:     domain.NoticeDuplicateView,
		Title:    "Duplicate view",
		Body:     fmt.Sprintf("This location already has a %s view on %s.", describe(key), pageList(pages)),
		Severity: domain.NoticeSeverityWarning,
	}, nil
}

func describe(key string) string {
	kind, orientation, found := strings.Cut(key, "-")
	if !found {
		return kind
	}
	return orientation + " " + kind
}

func pageList(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	if len(pages) == 1 {
		return "page " + parts[0]
	}
	return "pages " + strings.Join(parts, ", ")
}

func appendUnique(pages []int, p int) []int {
	for _, existing := range pages {
		if existing == p {
			return pages
		}
	}
	return append(pages, p)
}
