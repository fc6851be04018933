package redisstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newID(20)
		assert.Len(t, id, 20)
		for _, c := range id {
			assert.True(t, strings.ContainsRune(idChars, c))
		}
		seen[id] = true
	}
	assert.Len(t, seen, 100)
}

func TestKeyFor(t *testing.T) {
	s := &Store{prefix: "arboretum:trees"}
	assert.Equal(t, "arboretum:trees:abc", s.keyFor("abc"))
}
