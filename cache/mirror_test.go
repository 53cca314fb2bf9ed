package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMirrorKeyLayout(t *testing.T) {
	assert.Equal(t, "catalog:hackathons:entry:h1", entryKey("hackathons", "h1"))
	assert.Equal(t, "catalog:hackathons:slug:web3-jam", slugKey("hackathons", "web3-jam"))
	assert.Equal(t, "catalog:users:entry:u-abc", entryKey("users", "u-abc"))
}
