package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaper_Key(t *testing.T) {
	t.Run("DOI key is case insensitive", func(t *testing.T) {
		a := Paper{Title: "A", DOI: "10.1038/NATURE12373", Source: "crossref"}
		b := Paper{Title: "B", DOI: "10.1038/nature12373", Source: "openalex"}

		assert.Equal(t, "doi:10.1038/nature12373", a.Key())
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("title key collapses whitespace and lowercases", func(t *testing.T) {
		a := Paper{Title: "  Cognitive   Bias\tin Decision\nMaking "}
		b := Paper{Title: "cognitive bias in decision making"}

		assert.Equal(t, "title:cognitive bias in decision making", a.Key())
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("title key is bounded", func(t *testing.T) {
		long := Paper{Title: strings.Repeat("x", 500)}
		assert.Equal(t, "title:"+strings.Repeat("x", 200), long.Key())
	})

	t.Run("DOI takes precedence over title", func(t *testing.T) {
		p := Paper{Title: "Some Title", DOI: "10.1234/abc"}
		assert.Equal(t, "doi:10.1234/abc", p.Key())
	})
}

func TestPaper_HasDOI(t *testing.T) {
	assert.True(t, Paper{DOI: "10.1234/abc"}.HasDOI())
	assert.False(t, Paper{Title: "no identifier"}.HasDOI())
}
