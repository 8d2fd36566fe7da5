package idutil

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewSnowflake(t *testing.T) {
	a := NewSnowflake()
	b := NewSnowflake()
	require.NotEqual(t, a, b)

	ai, err := strconv.ParseInt(a, 10, 64)
	require.NoError(t, err)
	bi, err := strconv.ParseInt(b, 10, 64)
	require.NoError(t, err)
	require.Less(t, ai, bi)

	ts, err := SnowflakeTime(a)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestNewUUID(t *testing.T) {
	require.Len(t, NewUUID(), 36)
}
