// Package inventory compares the remote candidate set with what the output
// directory already holds.
package inventory

import (
	"fmt"
	"os"
	"sort"

	"github.com/tanq16/gribdl/internal/utils"
)

// ReadLocal snapshots the file names in dir, symlinks included.
// Subdirectories, including the partial-download area, are not part of the
// inventory.
func ReadLocal(dir string) ([]string, error) {
	if err := utils.CheckOutputDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrOutputDir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Diff returns the candidates that still need fetching: all of them when
// force is set, otherwise candidates minus local. The result is
// deduplicated and sorted.
func Diff(candidates, local []string, force bool) []string {
	have := make(map[string]struct{}, len(local))
	if !force {
		for _, name := range local {
			have[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, skip := have[name]; skip {
			continue
		}
		have[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Plan turns the diffed candidates into download tasks, one per filename.
func Plan(candidates []utils.Candidate, local []string, force bool) []utils.DownloadTask {
	urls := make(map[string]string, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := urls[c.Filename]; ok {
			continue
		}
		urls[c.Filename] = c.URL
		names = append(names, c.Filename)
	}
	needed := Diff(names, local, force)
	tasks := make([]utils.DownloadTask, len(needed))
	for i, name := range needed {
		tasks[i] = utils.DownloadTask{URL: urls[name], Filename: name}
	}
	return tasks
}
