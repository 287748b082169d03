package cmd

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osuparse/catalog"
)

const cmdMap = `osu file format v14

[Metadata]
Title:End Time
Artist:Cres
Creator:PaRaDogi
Version:Dogi
BeatmapID:2797865
BeatmapSetID:1351450

[TimingPoints]
0,500,4,2,0,60,1,0

[HitObjects]
256,192,11000,21,2
256,192,13000,12,0,15000
`

// run executes the root command with flags reset, since cobra keeps flag
// values between executions.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "osuparse dev (unknown)")
}

func TestDecodeText(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "end time.osu", []byte(cmdMap))
	out, err := run(t, "decode", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Cres - End Time [Dogi] (PaRaDogi)")
	assert.Contains(t, out, "2 objects: 1 circles, 0 sliders, 1 spinners, 0 holds")
	assert.Contains(t, out, "11000ms to 15000ms")
}

func TestDecodeArchiveJSON(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"good.osu": cmdMap,
		"bad.osu":  "[HitObjects]\n1,2,3,2,0,X|1:1,1,10,0|0,0:0|0:0\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	path := writeTemp(t, t.TempDir(), "set.osz", buf.Bytes())

	out, err := run(t, "decode", "--json", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 beatmaps failed")

	var files []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)
	assert.Equal(t, "bad.osu", files[0]["name"])
	assert.Contains(t, files[0]["error"], "unknown curve tag")
	assert.Equal(t, "good.osu", files[1]["name"])
	assert.EqualValues(t, 14, files[1]["format_version"])
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := run(t, "decode", filepath.Join(t.TempDir(), "missing.osu"))
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	songs := t.TempDir()
	writeTemp(t, songs, "a.osu", []byte(cmdMap))
	writeTemp(t, songs, "b.osu", []byte("[HitObjects]\n1,2\n"))
	db := filepath.Join(t.TempDir(), "index.db")

	out, err := run(t, "index", "--db", db, "--workers", "2", songs)
	require.NoError(t, err)
	assert.Contains(t, out, "1 indexed, 1 failed")

	cat, err := catalog.Open(db)
	require.NoError(t, err)
	defer cat.Close()
	rec, err := cat.Get(2797865)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(songs, "a.osu"), rec.Path)
}

func TestFetchRejectsBadID(t *testing.T) {
	_, err := run(t, "fetch", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid beatmap id")
}
