package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	pushedDateLayout = "2006-01-02"
	rangeSeparator   = ".."
)

// pushedOperators are checked longest first so ">=" is not read as ">".
//
//nolint:gochecknoglobals // constant lookup table
var pushedOperators = []string{">=", "<=", ">", "<"}

// SearchQuery holds the repository search criteria of a run.
type SearchQuery struct {
	Language string
	Pushed   string // normalized expression, e.g. ">2026-09-17"; empty disables the filter
}

// NewSearchQuery builds a query, validating the pushed expression. An empty
// expression defaults to one month before now unless noPushed is set.
func NewSearchQuery(language, pushed string, noPushed bool, now time.Time) (SearchQuery, error) {
	query := SearchQuery{Language: language}
	if noPushed {
		return query, nil
	}

	if pushed == "" {
		query.Pushed = ">" + now.AddDate(0, -1, 0).Format(pushedDateLayout)
		return query, nil
	}

	normalized, err := ParsePushedExpression(pushed)
	if err != nil {
		return SearchQuery{}, err
	}
	query.Pushed = normalized
	return query, nil
}

// ParsePushedExpression validates a pushed-date filter. A bare date means
// "pushed after"; comparison prefixes and "A..B" ranges are kept as written.
func ParsePushedExpression(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", errors.New("empty pushed date expression")
	}

	if from, to, ok := strings.Cut(expr, rangeSeparator); ok {
		if err := validateDate(from); err != nil {
			return "", err
		}
		if err := validateDate(to); err != nil {
			return "", err
		}
		return expr, nil
	}

	for _, op := range pushedOperators {
		if date, ok := strings.CutPrefix(expr, op); ok {
			if err := validateDate(date); err != nil {
				return "", err
			}
			return expr, nil
		}
	}

	if err := validateDate(expr); err != nil {
		return "", err
	}
	return ">" + expr, nil
}

func validateDate(value string) error {
	if _, err := time.Parse(pushedDateLayout, value); err != nil {
		return fmt.Errorf("cannot parse date %q into format YYYY-MM-DD: %w", value, err)
	}
	return nil
}

// String renders the query in GitHub search syntax.
func (q SearchQuery) String() string {
	var parts []string
	if q.Pushed != "" {
		parts = append(parts, "pushed:"+q.Pushed)
	}
	if q.Language != "" {
		parts = append(parts, fmt.Sprintf("language:%q", q.Language))
	}
	return strings.Join(parts, " ")
}

// CodeQuery is a code search scoped to one repository.
type CodeQuery struct {
	Term       string
	Language   string
	Repository string // "owner/name"
}

func (q CodeQuery) String() string {
	query := q.Term
	if q.Repository != "" {
		query += " repo:" + q.Repository
	}
	if q.Language != "" {
		query += fmt.Sprintf(" language:%q", q.Language)
	}
	return query
}
