// Package munge derives URL-safe names and tags from display strings.
// The rules mirror the record store's own naming discipline so that
// names produced here are accepted verbatim on create and update.
package munge

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name and tag length bounds enforced by the record store.
const (
	NameMinLength = 2
	NameMaxLength = 100

	TagMinLength = 2
	TagMaxLength = 100
)

var (
	nameSeparators = regexp.MustCompile(`[ .:/]`)
	nameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
	hyphenRuns     = regexp.MustCompile(`-+`)
	tagDisallowed  = regexp.MustCompile(`[^a-z0-9\- ]`)

	// trailingYear matches a -2021 or -2020/21 style suffix so truncation
	// keeps the year visible at the end of long names.
	trailingYear = regexp.MustCompile(`.*?[_-]((?:\d{2,4}[-/])?\d{2,4})$`)

	// asciiFolder decomposes accented characters and strips the combining
	// marks, so "Café" folds to "Cafe" before slugification.
	asciiFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// TitleToName munges a dataset title into a URL-safe record name.
// The result is lowercase, uses single hyphens as separators, and is
// bounded to NameMaxLength. Uniqueness is not guaranteed; callers that
// need distinct names must de-clash them.
func TitleToName(title string) string {
	name := foldASCII(title)

	// Convert spaces and separators, drop everything else
	name = nameSeparators.ReplaceAllString(name, "-")
	name = strings.ToLower(nameDisallowed.ReplaceAllString(name, ""))

	// Collapse runs and trim the edges
	name = hyphenRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	// Keep a few characters in reserve for de-clashing suffixes. When a
	// long name ends in a year, keep the year and truncate the middle.
	maxLength := NameMaxLength - 5
	if len(name) > maxLength {
		if m := trailingYear.FindStringSubmatch(name); m != nil {
			year := m[1]
			name = name[:maxLength-len(year)-1] + "-" + year
		} else {
			name = name[:maxLength]
		}
	}

	return toLength(name, NameMinLength, NameMaxLength)
}

// Tag munges a classification tag into the record store's tag form.
// Tags keep internal hyphens, replace spaces with hyphens, and are
// bounded to TagMaxLength.
func Tag(tag string) string {
	t := foldASCII(tag)
	t = strings.TrimSpace(strings.ToLower(t))
	t = tagDisallowed.ReplaceAllString(t, "")
	t = strings.ReplaceAll(t, " ", "-")
	return toLength(t, TagMinLength, TagMaxLength)
}

// Tags munges and deduplicates a list of tags, preserving first-seen order.
func Tags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		munged := Tag(tag)
		if _, ok := seen[munged]; ok {
			continue
		}
		seen[munged] = struct{}{}
		out = append(out, munged)
	}
	return out
}

// foldASCII transliterates to ASCII where a decomposition exists and
// drops any rune that survives outside the ASCII range.
func foldASCII(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toLength pads a short string with underscores and truncates a long one.
func toLength(s string, minLength, maxLength int) string {
	if len(s) < minLength {
		s += strings.Repeat("_", minLength-len(s))
	}
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}
