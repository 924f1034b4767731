package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	home := UserHomeDir()
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, "Pictures"), ExpandPath("~/Pictures/"))
	assert.Equal(t, "/tmp/a", ExpandPath("/tmp/x/../a"))
}

func TestDataPath(t *testing.T) {
	assert.Equal(t, "/var/scrnstr/state.db", DataPath("/var/scrnstr", "state.db"))
	assert.Equal(t, filepath.Join(UserHomeDir(), ".scrnstr", "pim.db"), DataPath("", "pim.db"))
}
