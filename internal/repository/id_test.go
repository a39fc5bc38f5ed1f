package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "user007", formatID("user", 7))
	require.Equal(t, "bk012", formatID("bk", 12))
	require.Equal(t, "au003", formatID("au", 3))
	require.Equal(t, "ge001", formatID("ge", 1))
	require.Equal(t, "brw045", formatID("brw", 45))
}

func TestFormatID_NoWrapPastPadding(t *testing.T) {
	t.Parallel()

	require.Equal(t, "bk999", formatID("bk", 999))
	require.Equal(t, "bk1000", formatID("bk", 1000))
	require.Equal(t, "brw12345", formatID("brw", 12345))
}
