package catalog

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osuparse/dotosu"
)

const goodMap = `osu file format v14

[General]
Mode: 0

[Metadata]
Title:Blue Zenith
Artist:xi
Creator:Asphyxia
Version:FOUR DIMENSIONS
BeatmapID:658127
BeatmapSetID:292301

[TimingPoints]
1000,300,4,2,1,60,1,0

[HitObjects]
256,192,1000,5,0
100,100,1300,2,0,L|200:100,1,100,0|0,0:0|0:0
256,192,2000,12,0,3000
`

const badMap = `osu file format v14

[HitObjects]
256,192,1000,2,0,L|200:100
`

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })
	version, err := cat.Migrate()
	require.NoError(t, err)
	require.Equal(t, 2, version)
	return cat
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func archive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestMigrateIsIdempotent(t *testing.T) {
	cat := newCatalog(t)
	version, err := cat.Migrate()
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestPutAndGet(t *testing.T) {
	cat := newCatalog(t)
	cat.now = func() time.Time { return time.Unix(1700000000, 0) }

	b, err := dotosu.DecodeString(goodMap)
	require.NoError(t, err)
	require.NoError(t, cat.Put("scan-1", "songs/blue.osu", b))

	rec, err := cat.Get(658127)
	require.NoError(t, err)
	assert.Equal(t, &Record{
		Path:          "songs/blue.osu",
		ScanID:        "scan-1",
		BeatmapID:     658127,
		BeatmapSetID:  292301,
		Title:         "Blue Zenith",
		Artist:        "xi",
		Creator:       "Asphyxia",
		Version:       "FOUR DIMENSIONS",
		FormatVersion: 14,
		Circles:       1,
		Sliders:       1,
		Spinners:      1,
		FirstObject:   1000,
		LastObject:    3000,
		MinBPM:        200,
		MaxBPM:        200,
		IndexedAt:     time.Unix(1700000000, 0),
	}, rec)

	n, err := cat.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetMissing(t *testing.T) {
	cat := newCatalog(t)
	_, err := cat.Get(1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPutClearsFailureAndFailureDropsRecord(t *testing.T) {
	cat := newCatalog(t)
	b, err := dotosu.DecodeString(goodMap)
	require.NoError(t, err)

	require.NoError(t, cat.RecordFailure("scan-1", "a.osu", errors.New("boom")))
	failures, err := cat.Failures()
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "boom", failures[0].Reason)

	require.NoError(t, cat.Put("scan-2", "a.osu", b))
	failures, err = cat.Failures()
	require.NoError(t, err)
	assert.Empty(t, failures)

	require.NoError(t, cat.RecordFailure("scan-3", "a.osu", errors.New("broken again")))
	_, err = cat.Get(658127)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestScan(t *testing.T) {
	cat := newCatalog(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "292301", "good.osu"), []byte(goodMap))
	writeFile(t, filepath.Join(root, "292301", "bad.osu"), []byte(badMap))
	writeFile(t, filepath.Join(root, "292301", "audio.mp3"), []byte("id3"))
	writeFile(t, filepath.Join(root, "sets", "set.osz"), archive(t, map[string]string{
		"easy.osu": goodMap,
		"hard.osu": badMap,
		"bg.jpg":   "",
	}))
	writeFile(t, filepath.Join(root, "sets", "broken.osz"), []byte("Slow down, play more."))

	report, err := cat.Scan(context.Background(), root, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 3, report.Failed)

	n, err := cat.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	failures, err := cat.Failures()
	require.NoError(t, err)
	var paths []string
	for _, f := range failures {
		assert.Equal(t, report.ID, f.ScanID)
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "292301", "bad.osu"),
		filepath.Join(root, "sets", "set.osz", "hard.osu"),
		filepath.Join(root, "sets", "broken.osz"),
	}, paths)
	assert.Contains(t, failures[0].Reason+failures[1].Reason+failures[2].Reason, "missing mandatory field")
}

func TestScanCancelled(t *testing.T) {
	cat := newCatalog(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.osu"), []byte(goodMap))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cat.Scan(ctx, root, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanRejectsFile(t *testing.T) {
	cat := newCatalog(t)
	path := filepath.Join(t.TempDir(), "a.osu")
	writeFile(t, path, []byte(goodMap))
	_, err := cat.Scan(context.Background(), path, 1)
	assert.Error(t, err)
}

func TestGuardRecoversPanic(t *testing.T) {
	err := guard(func() error { panic("lost the map") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lost the map")
}
