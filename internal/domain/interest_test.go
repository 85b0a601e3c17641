package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusMatched.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestPairKey_OrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice#bob", PairKey("bob", "alice"))
}
