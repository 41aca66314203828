package tzindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackTileKeyLayout(t *testing.T) {
	k := PackTileKey(5, 0x1234, 0x0abc)
	require.Equal(t, uint32(5)<<28|uint32(0x0abc)<<14|uint32(0x1234), uint32(k))
	require.Equal(t, uint8(5), k.Level())
	require.Equal(t, uint16(0x1234), k.X())
	require.Equal(t, uint16(0x0abc), k.Y())
}

func TestPackTileKeyReducesModulo(t *testing.T) {
	require.Equal(t, PackTileKey(1, 3, 4), PackTileKey(9, 3, 4))
	require.Equal(t, PackTileKey(0, 1, 2), PackTileKey(0, 1|1<<14, 2|1<<14))
	require.Equal(t, uint16(0x3fff), PackTileKey(0, 0xffff, 0).X())
}

func TestTileKeyOrderFollowsLevelThenRow(t *testing.T) {
	require.Less(t, PackTileKey(0, 100, 100), PackTileKey(1, 0, 0))
	require.Less(t, PackTileKey(2, 500, 3), PackTileKey(2, 0, 4))
	require.Less(t, PackTileKey(2, 1, 4), PackTileKey(2, 2, 4))
}
