package munge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfield/gleaner/pkg/munge"
)

func TestTitleToName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "simple title",
			title: "Test Set",
			want:  "test-set",
		},
		{
			name:  "already safe",
			title: "budget",
			want:  "budget",
		},
		{
			name:  "separators become hyphens",
			title: "Crime Data: 2019/2020",
			want:  "crime-data-2019-2020",
		},
		{
			name:  "punctuation dropped",
			title: "Parks & Recreation (Citywide)",
			want:  "parks-recreation-citywide",
		},
		{
			name:  "accents fold to ascii",
			title: "Café Zürich Überblick",
			want:  "cafe-zurich-uberblick",
		},
		{
			name:  "underscores survive",
			title: "my_data set",
			want:  "my_data-set",
		},
		{
			name:  "hyphen runs collapse",
			title: "a - - b",
			want:  "a-b",
		},
		{
			name:  "leading and trailing trimmed",
			title: "  -Budget-  ",
			want:  "budget",
		},
		{
			name:  "short names padded",
			title: "A",
			want:  "a_",
		},
		{
			name:  "empty title padded",
			title: "",
			want:  "__",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, munge.TitleToName(tt.title))
		})
	}
}

func TestTitleToNameLength(t *testing.T) {
	t.Run("long names truncated", func(t *testing.T) {
		long := strings.Repeat("city-budget-", 20)
		got := munge.TitleToName(long)
		assert.LessOrEqual(t, len(got), munge.NameMaxLength)
		assert.GreaterOrEqual(t, len(got), munge.NameMinLength)
	})

	t.Run("trailing year survives truncation", func(t *testing.T) {
		long := strings.Repeat("annual-expenditure-report-", 5) + "final-2021"
		got := munge.TitleToName(long)
		assert.LessOrEqual(t, len(got), munge.NameMaxLength)
		assert.True(t, strings.HasSuffix(got, "-2021"), "got %q", got)
	})

	t.Run("year range survives truncation", func(t *testing.T) {
		long := strings.Repeat("annual-expenditure-report-", 5) + "final-2020/21"
		got := munge.TitleToName(long)
		assert.True(t, strings.HasSuffix(got, "-2020-21"), "got %q", got)
	})
}

func TestTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want string
	}{
		{
			name: "lowercased",
			tag:  "Foo",
			want: "foo",
		},
		{
			name: "spaces become hyphens",
			tag:  "public safety",
			want: "public-safety",
		},
		{
			name: "existing hyphens kept",
			tag:  "e-government",
			want: "e-government",
		},
		{
			name: "punctuation dropped then padded",
			tag:  "C++",
			want: "c_",
		},
		{
			name: "surrounding space trimmed",
			tag:  "  transit  ",
			want: "transit",
		},
		{
			name: "accents fold",
			tag:  "Montréal",
			want: "montreal",
		},
		{
			name: "long tags truncated",
			tag:  strings.Repeat("z", 150),
			want: strings.Repeat("z", munge.TagMaxLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, munge.Tag(tt.tag))
		})
	}
}

func TestTags(t *testing.T) {
	t.Run("deduplicates after munging", func(t *testing.T) {
		got := munge.Tags([]string{"Foo", "foo ", "Bar", "FOO"})
		assert.Equal(t, []string{"foo", "bar"}, got)
	})

	t.Run("preserves first seen order", func(t *testing.T) {
		got := munge.Tags([]string{"Transit", "Budget", "transit", "Parks"})
		assert.Equal(t, []string{"transit", "budget", "parks"}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, munge.Tags(nil))
	})
}
