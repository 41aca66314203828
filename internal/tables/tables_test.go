package tables

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func sampleRaw() *Raw {
	levels := make([][]byte, NumLevels)
	levels[2] = []byte{0x20, 0, 0, 1, 0, 0}
	return &Raw{
		Manifest: Manifest{NumLeaves: 1, DegPixels: DegPixels, Levels: NumLevels, Build: "test"},
		Levels:   levels,
		Leaves:   []byte("SEurope/Paris\x00"),
	}
}

func TestWriteDirThenLoadDir(t *testing.T) {
	dir := t.TempDir()
	in := sampleRaw()
	require.NoError(t, WriteDir(dir, in))
	for i := 0; i < NumLevels; i++ {
		require.FileExists(t, filepath.Join(dir, LevelFile(i)))
	}

	out, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, in.Manifest, out.Manifest)
	require.Equal(t, in.Leaves, out.Leaves)
	require.Equal(t, in.Levels[2], out.Levels[2])
	require.Empty(t, out.Levels[0])
}

func TestFrameIsWrappedBase64(t *testing.T) {
	framed, err := Frame(make([]byte, 4096))
	require.NoError(t, err)
	for _, line := range splitLines(framed) {
		require.LessOrEqual(t, len(line), 76)
	}
	raw, err := Unframe(framed)
	require.NoError(t, err)
	require.Len(t, raw, 4096)
}

func splitLines(b []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, c := range b {
		if c == '\n' {
			out = append(out, b[start:i])
			start = i + 1
		}
	}
	return out
}

func TestUnframeRejectsGarbage(t *testing.T) {
	_, err := Unframe([]byte("not base64 at all!"))
	require.ErrorIs(t, err, ErrFrame)
	// valid base64, not gzip
	_, err = Unframe([]byte("aGVsbG8gd29ybGQ="))
	require.ErrorIs(t, err, ErrFrame)
}

func framedFS(t *testing.T, manifest string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{ManifestFile: {Data: []byte(manifest)}}
	empty, err := Frame(nil)
	require.NoError(t, err)
	for i := 0; i < NumLevels; i++ {
		fsys[LevelFile(i)] = &fstest.MapFile{Data: empty}
	}
	leaves, err := Frame([]byte("SUTC\x00"))
	require.NoError(t, err)
	fsys[LeavesFile] = &fstest.MapFile{Data: leaves}
	return fsys
}

func TestLoadManifestChecks(t *testing.T) {
	_, err := Load(framedFS(t, `{"num_leaves":1,"deg_pixels":32,"levels":6}`))
	require.NoError(t, err)

	for _, m := range []string{
		`{"num_leaves":1,"deg_pixels":16,"levels":6}`,
		`{"num_leaves":1,"deg_pixels":32,"levels":5}`,
		`{"num_leaves":0,"deg_pixels":32,"levels":6}`,
		`{"num_leaves":70000,"deg_pixels":32,"levels":6}`,
		`not json`,
	} {
		_, err := Load(framedFS(t, m))
		require.ErrorIs(t, err, ErrManifest, m)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fsys := framedFS(t, `{"num_leaves":1,"deg_pixels":32,"levels":6}`)
	delete(fsys, LevelFile(4))
	_, err := Load(fsys)
	require.ErrorIs(t, err, os.ErrNotExist)
}
