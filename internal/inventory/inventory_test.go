package inventory

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/gribdl/internal/utils"
)

func TestDiff(t *testing.T) {
	candidates := []string{"c.grb", "a.grb", "b.grb"}
	local := []string{"b.grb", "z.grb"}

	assert.Equal(t, []string{"a.grb", "c.grb"}, Diff(candidates, local, false))
	assert.Equal(t, []string{"a.grb", "b.grb", "c.grb"}, Diff(candidates, local, true))
	assert.Empty(t, Diff(nil, local, false))
	assert.Empty(t, Diff([]string{"b.grb"}, local, false))
}

func TestDiffIsSetDifference(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 200; round++ {
		var candidates, local []string
		nc, nl := rng.IntN(20), rng.IntN(20)
		for i := 0; i < nc; i++ {
			candidates = append(candidates, string(rune('a'+rng.IntN(15))))
		}
		for i := 0; i < nl; i++ {
			local = append(local, string(rune('a'+rng.IntN(15))))
		}

		want := map[string]bool{}
		for _, c := range candidates {
			if !slices.Contains(local, c) {
				want[c] = true
			}
		}
		got := Diff(candidates, local, false)
		require.Len(t, got, len(want))
		for _, g := range got {
			assert.True(t, want[g], g)
		}
		assert.True(t, slices.IsSorted(got))

		all := map[string]bool{}
		for _, c := range candidates {
			all[c] = true
		}
		assert.Len(t, Diff(candidates, local, true), len(all))
	}
}

func TestPlanHasNoDuplicates(t *testing.T) {
	candidates := []utils.Candidate{
		{Filename: "b.grb", URL: "https://x/b.grb"},
		{Filename: "a.grb", URL: "https://x/a.grb"},
		{Filename: "a.grb", URL: "https://x/dup/a.grb"},
		{Filename: "c.grb", URL: "https://x/c.grb"},
	}
	tasks := Plan(candidates, []string{"c.grb"}, false)
	assert.Equal(t, []utils.DownloadTask{
		{URL: "https://x/a.grb", Filename: "a.grb"},
		{URL: "https://x/b.grb", Filename: "b.grb"},
	}, tasks)

	assert.Len(t, Plan(candidates, []string{"c.grb"}, true), 3)
}

func TestReadLocal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.grb"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, utils.TempDirName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, utils.TempDirName, "b.grb.part"), []byte("x"), 0644))

	names, err := ReadLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.grb"}, names)

	_, err = ReadLocal(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, utils.ErrOutputDir)
}

func TestReadLocalCountsSymlinks(t *testing.T) {
	archive := t.TempDir()
	target := filepath.Join(archive, "a.grb")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))

	dir := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "a.grb")))
	require.NoError(t, os.Symlink(filepath.Join(archive, "gone.grb"), filepath.Join(dir, "gone.grb")))

	names, err := ReadLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.grb", "gone.grb"}, names)
	assert.Empty(t, Diff([]string{"a.grb"}, names, false))
}
