package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForecastHours(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"1,2,5-9", []int{1, 2, 5, 6, 7, 8, 9}},
		{"0-18", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}},
		{"3", []int{3}},
		{" 4 , 6-7", []int{4, 6, 7}},
		{"12,10-11", []int{12, 10, 11}},
	}
	for _, tt := range tests {
		got, err := ParseForecastHours(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseForecastHoursRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "a", "1,,2", "5-", "9-5", "1-b"} {
		_, err := ParseForecastHours(in)
		assert.Error(t, err, in)
	}
}

func TestParseHeaderArgs(t *testing.T) {
	got := ParseHeaderArgs([]string{"X-Token: abc", "Bad header", "Accept:  */* "})
	assert.Equal(t, map[string]string{"X-Token": "abc", "Accept": "*/*"}, got)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "1.00 KB", FormatBytes(1024))
	assert.Equal(t, "1.50 MB", FormatBytes(1024*1024*3/2))
}

func TestExpandPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GRIBDL_TEST_DIR", dir)
	got, err := ExpandPath("$GRIBDL_TEST_DIR/out")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "out", filepath.Base(got))

	got, err = ExpandPath("-")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheckOutputDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, CheckOutputDir(dir))

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.ErrorIs(t, CheckOutputDir(file), ErrOutputDir)
	assert.ErrorIs(t, CheckOutputDir(filepath.Join(dir, "missing")), ErrOutputDir)
}

func TestCleanTemp(t *testing.T) {
	dir := t.TempDir()
	n, err := CleanTemp(dir)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, os.MkdirAll(TempDir(dir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(TempDir(dir), "a.grib2.part"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(TempDir(dir), "b.grib2.part"), []byte("y"), 0644))

	n, err = CleanTemp(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoDirExists(t, TempDir(dir))
}

func TestRemoveTempIfEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, RemoveTempIfEmpty(dir))

	require.NoError(t, os.MkdirAll(TempDir(dir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(TempDir(dir), "keep.part"), nil, 0644))
	require.NoError(t, RemoveTempIfEmpty(dir))
	assert.DirExists(t, TempDir(dir))

	require.NoError(t, os.Remove(filepath.Join(TempDir(dir), "keep.part")))
	require.NoError(t, RemoveTempIfEmpty(dir))
	assert.NoDirExists(t, TempDir(dir))
}
