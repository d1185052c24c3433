package domain

import (
	"fmt"
	"strings"
)

// ViewKey returns the uniqueness key for a view: "plan", "detail",
// "elevation-<orientation>" or "section-<orientation>". ok is false when the
// view type is unknown or an oriented view has no orientation.
func ViewKey(v View) (string, bool) {
	switch v.Type {
	case ViewTypePlan, ViewTypeDetail:
		return string(v.Type), true
	case ViewTypeElevation, ViewTypeSection:
		if v.Orientation == nil || strings.TrimSpace(*v.Orientation) == "" {
			return "", false
		}
		return fmt.Sprintf("%s-%s", v.Type, strings.TrimSpace(*v.Orientation)), true
	}
	return "", false
}

// ViewKeyAllowsMany reports whether a key may legitimately appear on several pages.
// Multiple detail callouts per location are expected.
func ViewKeyAllowsMany(key string) bool {
	return key == string(ViewTypeDetail)
}

// LocationView is one location annotation's view on a page of a document.
type LocationView struct {
	AnnotationID int64
	PageNumber   int
	View         View
}
