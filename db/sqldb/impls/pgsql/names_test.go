package pgsql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomStmtName(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		name := randomStmtName()
		assert.Len(t, name, stmtNameLen)
		for _, c := range name {
			assert.True(t, strings.ContainsRune(stmtNameCharset, c), "unexpected char %q in %q", c, name)
		}
		seen[name] = struct{}{}
	}
	// 62^6 names; a thousand draws practically never repeat
	assert.Greater(t, len(seen), 990)
}

func TestUniqueNameSkipsRegistered(t *testing.T) {
	draws := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	h := &connHandle{names: map[string]struct{}{}}
	h.newName = func() string {
		n := draws[0]
		draws = draws[1:]
		return n
	}

	first := h.uniqueName()
	h.register(first)
	second := h.uniqueName()

	assert.Equal(t, "AAAAAA", first)
	assert.Equal(t, "BBBBBB", second)
	assert.True(t, h.registered("AAAAAA"))
	assert.False(t, h.registered("BBBBBB"))
}
