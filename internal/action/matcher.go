package action

import (
	"errors"
	"strings"
)

// ErrEmptyTitle is returned when a title is empty or only whitespace.
var ErrEmptyTitle = errors.New("task title is empty")

// Normalize lower-cases and trims a title for keyword matching.
func Normalize(title string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(title))
	if norm == "" {
		return "", ErrEmptyTitle
	}
	return norm, nil
}

// Match returns every category whose keyword occurs in title, in priority
// order. A title that hits nothing yields only CategoryDefault.
func Match(title string) ([]Category, error) {
	norm, err := Normalize(title)
	if err != nil {
		return nil, err
	}
	var matched []Category
	for _, c := range Categories {
		if c == CategoryDefault {
			continue
		}
		if strings.Contains(norm, c.Keyword()) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		matched = append(matched, CategoryDefault)
	}
	return matched, nil
}

// MatchFirst returns the highest-priority category whose keyword occurs in
// title, or CategoryDefault.
func MatchFirst(title string) (Category, error) {
	norm, err := Normalize(title)
	if err != nil {
		return 0, err
	}
	for _, c := range Categories {
		if c != CategoryDefault && strings.Contains(norm, c.Keyword()) {
			return c, nil
		}
	}
	return CategoryDefault, nil
}
