package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIntDefault(t *testing.T) {
	require.Equal(t, 7, ParseIntDefault("", 7))
	require.Equal(t, 7, ParseIntDefault("abc", 7))
	require.Equal(t, 3, ParseIntDefault("3", 7))
}

func TestLimit(t *testing.T) {
	require.Equal(t, 0, Limit(-1))
	require.Equal(t, 0, Limit(0))
	require.Equal(t, 25, Limit(25))
	require.Equal(t, MaxLimit, Limit(5000))
}
