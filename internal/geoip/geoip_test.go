package geoip

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oschwald/maxminddb-golang"
	"github.com/stretchr/testify/require"
)

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	require.Error(t, err)

	_, err = FromBytes([]byte("definitely not an mmdb file"))
	require.Error(t, err)
}

func TestCheckMetadata(t *testing.T) {
	require.NoError(t, checkMetadata(maxminddb.Metadata{DatabaseType: "GeoLite2-City"}))
	require.ErrorIs(t, checkMetadata(maxminddb.Metadata{DatabaseType: "GeoLite2-ASN"}), ErrNotCityDB)
}

func TestNilReader(t *testing.T) {
	var r *Reader
	_, ok := r.Locate("8.8.8.8")
	require.False(t, ok)
	require.NoError(t, r.Close())
	require.Empty(t, r.Metadata().DatabaseType)
}

func TestLocateRealDB(t *testing.T) {
	path := os.Getenv("GEOIP_CITY_PATH")
	if path == "" {
		t.Skip("GEOIP_CITY_PATH not set")
	}
	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, ok := r.Locate("not-an-ip")
	require.False(t, ok)
	_, ok = r.Locate("127.0.0.1")
	require.False(t, ok)

	loc, ok := r.Locate("81.2.69.142")
	if ok {
		require.InDelta(t, 0, loc.Lat, 90)
		require.InDelta(t, 0, loc.Lon, 180)
	}
}
