package models

import (
	"strings"
	"time"
)

// ChunkFilter is the query-time filter predicate from spec.md §4.8. All
// non-zero fields must match (conjunction); absent fields are ignored.
// CreatedAtFrom/To are applied against ChunkMetadata.ContentCreatedAt,
// grouping them with the other metadata-derived filters (tags, author).
type ChunkFilter struct {
	TextContains  string
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
	TagsAny       []string
	TagsAll       []string
	AuthorIn      []string
}

// IsEmpty reports whether no filter field is set, i.e. the filtered path
// of the query service should not be taken.
func (f *ChunkFilter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.TextContains == "" &&
		f.CreatedAtFrom == nil &&
		f.CreatedAtTo == nil &&
		len(f.TagsAny) == 0 &&
		len(f.TagsAll) == 0 &&
		len(f.AuthorIn) == 0
}

// ParseFilterTimestamp parses an ISO-8601/RFC3339 timestamp. A malformed
// timestamp is treated as absent per spec.md §4.8, so the caller should
// simply ignore a non-nil error rather than propagate it.
func ParseFilterTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Matches reports whether a chunk satisfies every set field of the filter.
func (f *ChunkFilter) Matches(c *Chunk) bool {
	if f == nil {
		return true
	}
	if f.TextContains != "" {
		if !strings.Contains(strings.ToLower(c.Text), strings.ToLower(f.TextContains)) {
			return false
		}
	}
	if f.CreatedAtFrom != nil && c.Metadata.ContentCreatedAt.Before(*f.CreatedAtFrom) {
		return false
	}
	if f.CreatedAtTo != nil && c.Metadata.ContentCreatedAt.After(*f.CreatedAtTo) {
		return false
	}
	if len(f.TagsAny) > 0 && !hasAnyTag(c.Metadata.Tags, f.TagsAny) {
		return false
	}
	if len(f.TagsAll) > 0 && !hasAllTags(c.Metadata.Tags, f.TagsAll) {
		return false
	}
	if len(f.AuthorIn) > 0 && !contains(f.AuthorIn, c.Metadata.Author) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	set := toSet(have)
	for _, t := range want {
		if set[t] {
			return true
		}
	}
	return false
}

func hasAllTags(have, want []string) bool {
	set := toSet(have)
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
