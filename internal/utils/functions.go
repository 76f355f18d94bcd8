package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseForecastHours expands a list such as "1,2,5-9" into [1 2 5 6 7 8 9].
// Order is preserved and ranges are inclusive.
func ParseForecastHours(s string) ([]int, error) {
	var hours []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty element in hour list %q", s)
		}
		if start, stop, ok := strings.Cut(part, "-"); ok {
			lo, err := strconv.Atoi(strings.TrimSpace(start))
			if err != nil {
				return nil, fmt.Errorf("bad range start in %q: %w", part, err)
			}
			hi, err := strconv.Atoi(strings.TrimSpace(stop))
			if err != nil {
				return nil, fmt.Errorf("bad range end in %q: %w", part, err)
			}
			if hi < lo {
				return nil, fmt.Errorf("descending range %q", part)
			}
			for h := lo; h <= hi; h++ {
				hours = append(hours, h)
			}
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad hour %q: %w", part, err)
		}
		hours = append(hours, h)
	}
	return hours, nil
}

// ExpandPath resolves ~ and environment variables, then makes the path absolute.
func ExpandPath(p string) (string, error) {
	if p == "" || p == "-" {
		return "", nil
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func CheckOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrOutputDir, dir)
	}
	return nil
}

func ParseHeaderArgs(headers []string) map[string]string {
	result := make(map[string]string)
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			result[key] = value
		}
	}
	return result
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func TempDir(outputDir string) string {
	return filepath.Join(outputDir, TempDirName)
}

// CleanTemp removes every leftover partial download under outputDir.
func CleanTemp(outputDir string) (int, error) {
	tempDir := TempDir(outputDir)
	files, err := os.ReadDir(tempDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, file := range files {
		if err := os.RemoveAll(filepath.Join(tempDir, file.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, os.Remove(tempDir)
}

// RemoveTempIfEmpty drops the temp directory once a run leaves nothing in it.
func RemoveTempIfEmpty(outputDir string) error {
	tempDir := TempDir(outputDir)
	remaining, err := os.ReadDir(tempDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return os.Remove(tempDir)
	}
	return nil
}
