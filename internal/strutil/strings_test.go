package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyHelpers(t *testing.T) {
	assert.True(t, IsEmpty(" \t"))
	assert.False(t, IsEmpty("x"))
	assert.Equal(t, "def", EmptyToDefault("", "def"))
	assert.Equal(t, "val", EmptyToDefault("val", "def"))
}

func TestHasAnyPrefixAndContainsAny(t *testing.T) {
	assert.True(t, HasAnyPrefix("changed foo", "deleted", "changed"))
	assert.False(t, HasAnyPrefix("root = /x", "deleted", "changed"))
	assert.True(t, ContainsAny("Name .DS_Store", ".git", ".DS_Store"))
	assert.False(t, ContainsAny("Name foo"))
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueStrings([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, UniqueStrings(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
