package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlug(t *testing.T) {
	tests := map[string]string{
		"The Night Watch":        "the-night-watch",
		"  Café  --  Terrace! ": "caf-terrace",
		"???":                    "item",
		"Codex 1505":             "codex-1505",
	}
	for in, want := range tests {
		assert.Equal(t, want, MakeSlug(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	free, err := UniqueSlug("Sunflowers", func(string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "sunflowers", free)

	seen := map[string]bool{"sunflowers": true}
	got, err := UniqueSlug("Sunflowers", func(s string) (bool, error) { return seen[s], nil })
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "sunflowers-"))
	assert.Len(t, got, len("sunflowers-")+8)

	boom := errors.New("db down")
	_, err = UniqueSlug("x", func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestTags(t *testing.T) {
	var it Item
	it.SetTags([]string{" maps ", "", "atlas"})
	assert.Equal(t, "maps,atlas", it.TagList)
	assert.Equal(t, []string{"maps", "atlas"}, it.Tags())

	it.TagList = ""
	assert.Empty(t, it.Tags())
}
