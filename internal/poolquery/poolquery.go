// Package poolquery serializes the Included and Excluded partitions into the
// query string the recommendation service expects.
package poolquery

import (
	"net/url"
	"strings"

	"github.com/kingrea/league-pool/internal/champion"
)

const (
	// CurrentKey carries the included pool.
	CurrentKey = "current_champions"
	// ExcludeKey carries the excluded candidates.
	ExcludeKey = "exclude_champions"

	delimiter = ","
)

// Params holds both partitions as comma-joined lists in sort order.
// Empty partitions are empty strings, never omitted.
type Params struct {
	Current string
	Exclude string
}

// Build serializes the two partitions. Inputs need not be sorted.
func Build(included, excluded []champion.Candidate) Params {
	return Params{
		Current: join(included),
		Exclude: join(excluded),
	}
}

func join(values []champion.Candidate) string {
	sorted := champion.Sorted(values)
	return strings.Join(champion.Strings(sorted), delimiter)
}

// Encode renders current_champions=<csv>&exclude_champions=<csv>. Each
// identifier is query-escaped on its own so the delimiter stays literal.
func (p Params) Encode() string {
	return CurrentKey + "=" + escapeList(p.Current) + "&" + ExcludeKey + "=" + escapeList(p.Exclude)
}

// CurrentList splits Current back into identifiers.
func (p Params) CurrentList() []string { return Split(p.Current) }

// ExcludeList splits Exclude back into identifiers.
func (p Params) ExcludeList() []string { return Split(p.Exclude) }

func escapeList(csv string) string {
	if csv == "" {
		return ""
	}
	parts := strings.Split(csv, delimiter)
	for i, part := range parts {
		parts[i] = url.QueryEscape(part)
	}
	return strings.Join(parts, delimiter)
}

// Split turns a comma-joined list into identifiers; "" yields an empty list.
func Split(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	parts := strings.Split(csv, delimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Parse reads Params from decoded query values. Missing keys read as empty.
func Parse(values url.Values) Params {
	return Params{
		Current: values.Get(CurrentKey),
		Exclude: values.Get(ExcludeKey),
	}
}
