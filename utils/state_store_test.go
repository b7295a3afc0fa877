package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOAuthStateSingleUseWithoutRedis(t *testing.T) {
	setUnreachableRedis()

	SaveState("state-abc", time.Minute)
	require.True(t, ConsumeState("state-abc"))
	require.False(t, ConsumeState("state-abc"))
	require.False(t, ConsumeState("never-saved"))
}
