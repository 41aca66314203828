package tzindex

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func zoomRecords(entries ...TileEntry) []byte {
	var b []byte
	for _, e := range entries {
		b = binary.BigEndian.AppendUint32(b, uint32(e.Key))
		b = binary.BigEndian.AppendUint16(b, e.Leaf)
	}
	return b
}

func TestDecodeZoomLevel(t *testing.T) {
	in := []TileEntry{
		{Key: PackTileKey(3, 1, 2), Leaf: 7},
		{Key: PackTileKey(3, 9, 2), Leaf: 0xfffe},
	}
	zl, err := DecodeZoomLevel(3, zoomRecords(in...))
	require.NoError(t, err)
	require.Equal(t, 3, zl.Level())
	require.Equal(t, 2, zl.Len())
	require.Equal(t, in[0], zl.Entry(0))
	require.Equal(t, in[1], zl.Entry(1))
}

func TestDecodeZoomLevelEmpty(t *testing.T) {
	zl, err := DecodeZoomLevel(0, nil)
	require.NoError(t, err)
	require.Equal(t, 0, zl.Len())
	_, ok := zl.Find(PackTileKey(0, 0, 0))
	require.False(t, ok)
}

func TestDecodeZoomLevelBadLength(t *testing.T) {
	_, err := DecodeZoomLevel(2, make([]byte, 13))
	require.ErrorIs(t, err, ErrBadRecordLength)
}

func TestDecodeLeaves(t *testing.T) {
	var b []byte
	b = append(b, 'S')
	b = append(b, "Europe/Paris"...)
	b = append(b, 0)
	b = append(b, '2', 0x00, 0x00, 0x00, 0x02)
	b = binary.BigEndian.AppendUint64(b, 1<<(3*8+5))
	b = append(b, 'P')
	for i := 0; i < 64; i++ {
		b = binary.BigEndian.AppendUint16(b, uint16(i))
	}
	b = append(b, "trailing"...)

	leaves, err := DecodeLeavesBytes(b, 3)
	require.NoError(t, err)
	require.Len(t, leaves, 3)
	require.Equal(t, StaticZone{Name: "Europe/Paris"}, leaves[0])

	one, ok := leaves[1].(OneBitTile)
	require.True(t, ok)
	require.Equal(t, [2]uint16{0, 2}, one.Children)
	require.Equal(t, uint16(2), one.Child(5, 3))
	require.Equal(t, uint16(0), one.Child(3, 5))

	pm, ok := leaves[2].(*Pixmap)
	require.True(t, ok)
	// row-major: grid[y][x] holds value y*8+x
	require.Equal(t, uint16(8*6+1), pm.At(1, 6))
	require.Equal(t, uint16(8*1+6), pm.At(6, 1))
}

func TestDecodeLeavesEmptyName(t *testing.T) {
	leaves, err := DecodeLeavesBytes([]byte{'S', 0}, 1)
	require.NoError(t, err)
	require.Equal(t, StaticZone{}, leaves[0])
}

func TestDecodeLeavesErrors(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		n    int
		want error
	}{
		{"unknown tag", []byte{'X', 0, 0}, 1, ErrUnknownLeafKind},
		{"missing terminator", []byte("SAsia/Tokyo"), 1, ErrTruncated},
		{"short one-bit", []byte{'2', 0, 1, 0, 2, 0xff}, 1, ErrTruncated},
		{"short pixmap", append([]byte{'P'}, make([]byte, 127)...), 1, ErrTruncated},
		{"fewer records than declared", []byte{'S', 'A', 0}, 2, ErrTruncated},
		{"invalid utf8", []byte{'S', 0xff, 0xfe, 0}, 1, ErrInvalidName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLeavesBytes(tc.in, tc.n)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCountLeaves(t *testing.T) {
	n, err := CountLeaves(nil)
	require.NoError(t, err)
	require.Zero(t, n)

	b := []byte("SAsia/Tokyo\x00SUTC\x00")
	b = append(b, '2', 0, 0, 0, 1)
	b = binary.BigEndian.AppendUint64(b, 0)
	n, err = CountLeaves(b)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = CountLeaves(append(b, 'S', 'x'))
	require.ErrorIs(t, err, ErrTruncated)
	require.Equal(t, 3, n)
}
