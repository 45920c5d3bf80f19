package query

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/learnhub/learning-api/internal/types"
)

// SortKey selects the single ordering applied after filtering.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps a client value to a SortKey. Anything unknown,
// including the empty string, is popularity ordering.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(strings.TrimSpace(raw)); k {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return k
	}
	return SortPopular
}

// CourseFilter holds optional course criteria. Nil/empty fields impose no
// constraint; supplied fields are ANDed.
type CourseFilter struct {
	Search   string
	Category string
	Level    types.CourseLevel
	Featured *bool
	MinPrice *float64
	MaxPrice *float64
}

// CourseQuery is a full list request: criteria, ordering and window.
type CourseQuery struct {
	Filter CourseFilter
	Sort   SortKey
	Pagination
}

// ParseCourseQuery reads the list parameters used by GET /courses:
// q, category, level, featured, minPrice, maxPrice, sortBy, limit, offset.
func ParseCourseQuery(v url.Values) (CourseQuery, error) {
	q := CourseQuery{
		Filter: CourseFilter{
			Search:   strings.TrimSpace(v.Get("q")),
			Category: strings.TrimSpace(v.Get("category")),
			Level:    types.CourseLevel(strings.TrimSpace(v.Get("level"))),
		},
		Sort: ParseSortKey(v.Get("sortBy")),
	}

	if raw := strings.TrimSpace(v.Get("featured")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return CourseQuery{}, fmt.Errorf("featured %q: %w", raw, ErrInvalidParam)
		}
		q.Filter.Featured = &b
	}

	var err error
	if q.Filter.MinPrice, err = parsePrice("minPrice", v.Get("minPrice")); err != nil {
		return CourseQuery{}, err
	}
	if q.Filter.MaxPrice, err = parsePrice("maxPrice", v.Get("maxPrice")); err != nil {
		return CourseQuery{}, err
	}

	if q.Pagination, err = ParsePagination(v.Get("limit"), v.Get("offset"), DefaultLimit); err != nil {
		return CourseQuery{}, err
	}
	return q, nil
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", name, raw, ErrInvalidParam)
	}
	return &f, nil
}

// Match reports whether c satisfies every supplied criterion.
func (f CourseFilter) Match(c types.Course) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !containsFold(c.Title, needle) &&
			!containsFold(c.Instructor, needle) &&
			!containsFold(c.Description, needle) {
			return false
		}
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Featured != nil && c.Featured != *f.Featured {
		return false
	}
	if f.MinPrice != nil && c.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && c.Price > *f.MaxPrice {
		return false
	}
	return true
}

// FilterCourses returns the courses matching f, in input order.
func FilterCourses(courses []types.Course, f CourseFilter) []types.Course {
	out := make([]types.Course, 0, len(courses))
	for _, c := range courses {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortCourses orders courses in place by key. The sort is stable, so
// courses with equal keys keep their store order.
func SortCourses(courses []types.Course, key SortKey) {
	var less func(a, b types.Course) int
	switch key {
	case SortPriceLow:
		less = func(a, b types.Course) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceHigh:
		less = func(a, b types.Course) int { return cmp.Compare(b.Price, a.Price) }
	case SortRating:
		less = func(a, b types.Course) int { return cmp.Compare(b.RatingOrZero(), a.RatingOrZero()) }
	case SortNewest:
		less = func(a, b types.Course) int { return b.CreatedAt.Compare(a.CreatedAt) }
	default:
		less = func(a, b types.Course) int { return cmp.Compare(b.StudentCountOrZero(), a.StudentCountOrZero()) }
	}
	slices.SortStableFunc(courses, less)
}

// Courses runs the whole pipeline: filter, sort, paginate. Page.Total is
// the filtered count before the window is applied.
func Courses(courses []types.Course, q CourseQuery) ([]types.Course, Page) {
	matched := FilterCourses(courses, q.Filter)
	SortCourses(matched, q.Sort)
	return Paginate(matched, q.Pagination)
}

// CategoryCount is one row of the category directory.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories lists distinct categories with their course counts, by name.
func Categories(courses []types.Course) []CategoryCount {
	counts := make(map[string]int)
	for _, c := range courses {
		counts[c.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, CategoryCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Similar returns up to limit courses sharing base's category, most
// popular first, excluding base itself.
func Similar(courses []types.Course, base types.Course, limit int) []types.Course {
	out := make([]types.Course, 0)
	for _, c := range courses {
		if c.ID != base.ID && c.Category == base.Category {
			out = append(out, c)
		}
	}
	SortCourses(out, SortPopular)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
