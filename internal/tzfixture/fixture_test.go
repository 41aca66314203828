package tzfixture_test

import (
	"testing"

	"tz-api/internal/tzcases"
	"tz-api/internal/tzfixture"
	"tz-api/internal/tzindex"

	"github.com/stretchr/testify/require"
)

func TestWorldSatisfiesCases(t *testing.T) {
	ix, err := tzindex.New(tzfixture.World())
	require.NoError(t, err)
	for _, c := range tzcases.Pixels {
		zone, ok := ix.LookupPixel(c.X, c.Y)
		require.Equal(t, c.Zone, zone, "pixel (%d,%d)", c.X, c.Y)
		require.Equal(t, c.Zone != "", ok)
	}
	for _, c := range tzcases.Geo {
		zone, _ := ix.Lookup(c.Lat, c.Lon)
		require.Equal(t, c.Zone, zone)
	}
}

// 西伯利亚一位图瓦片：第 0..2 行为 Krasnoyarsk，第 3..7 行为 Yakutsk
func TestWorldOneBitRows(t *testing.T) {
	ix, err := tzindex.New(tzfixture.World())
	require.NoError(t, err)
	x0, y0 := 9290&^7, 530&^7
	for ly := 0; ly < 8; ly++ {
		want := "Asia/Krasnoyarsk"
		if ly >= 3 {
			want = "Asia/Yakutsk"
		}
		for lx := 0; lx < 8; lx++ {
			zone, ok := ix.LookupPixel(x0+lx, y0+ly)
			require.True(t, ok)
			require.Equal(t, want, zone, "local (%d,%d)", lx, ly)
		}
	}
}

func TestEncodeLeafRoundTrip(t *testing.T) {
	in := []tzindex.Leaf{
		tzindex.StaticZone{Name: "Europe/Lisbon"},
		tzindex.OneBitTile{Children: [2]uint16{0, 0}, Bits: 0xFFFFFFFFFF000000},
		&tzindex.Pixmap{Grid: tzfixture.Fill(tzindex.OceanIndex)},
	}
	var b []byte
	for _, l := range in {
		b = append(b, tzfixture.EncodeLeaf(l)...)
	}
	out, err := tzindex.DecodeLeavesBytes(b, len(in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}
