package gribhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tanq16/gribdl/internal/utils"
)

type Kind int

const (
	Success Kind = iota
	Unavailable
	TransportError
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Unavailable:
		return "unavailable"
	case TransportError:
		return "transport-error"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the result of one download task. Path is set on Success and
// Err on TransportError.
type Outcome struct {
	Kind  Kind
	Task  utils.DownloadTask
	Path  string
	Bytes int64
	Err   error
}

type Downloader struct {
	client    utils.HTTPDoer
	outputDir string
	available utils.Availability
	logger    zerolog.Logger
}

func NewDownloader(client utils.HTTPDoer, outputDir string, available utils.Availability, logger zerolog.Logger) *Downloader {
	if available == nil {
		available = func(resp *http.Response) bool { return resp.StatusCode == http.StatusOK }
	}
	return &Downloader{
		client:    client,
		outputDir: outputDir,
		available: available,
		logger:    logger,
	}
}

// Fetch downloads one task into the output directory. The body streams into
// a .part file under the temp dir and is renamed into place only when the
// whole payload arrived, so the destination never holds a partial file.
// An unavailable answer leaves no file at the destination, even one that
// existed before the call.
func (d *Downloader) Fetch(ctx context.Context, task utils.DownloadTask) Outcome {
	outputPath := filepath.Join(d.outputDir, task.Filename)
	tempDir := utils.TempDir(d.outputDir)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return Outcome{Kind: TransportError, Task: task, Err: fmt.Errorf("error creating temp directory: %w", err)}
	}
	tempOutputPath := filepath.Join(tempDir, task.Filename+".part")
	d.logger.Debug().Str("op", "http/simple-downloader").Msgf("try retrieve: %s", task.URL)
	d.logger.Debug().Str("op", "http/simple-downloader").Msgf("try save to: %s", outputPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return Outcome{Kind: TransportError, Task: task, Err: fmt.Errorf("error creating GET request: %w", err)}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return Outcome{Kind: TransportError, Task: task, Err: fmt.Errorf("error executing GET request: %w", err)}
	}
	defer resp.Body.Close()

	if !d.available(resp) {
		io.Copy(io.Discard, resp.Body)
		os.Remove(tempOutputPath)
		if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
			d.logger.Warn().Str("op", "http/simple-downloader").Err(err).Msgf("Could not remove %s", outputPath)
		}
		return Outcome{Kind: Unavailable, Task: task}
	}

	written, err := writeBody(resp.Body, tempOutputPath)
	if err != nil {
		os.Remove(tempOutputPath)
		return Outcome{Kind: TransportError, Task: task, Err: err}
	}
	if err := os.Rename(tempOutputPath, outputPath); err != nil {
		os.Remove(tempOutputPath)
		return Outcome{Kind: TransportError, Task: task, Err: fmt.Errorf("error renaming (finalizing) output file: %w", err)}
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		d.logger.Debug().Str("op", "http/simple-downloader").Msg(cd)
	}
	return Outcome{Kind: Success, Task: task, Path: outputPath, Bytes: written}
}

func writeBody(body io.Reader, path string) (int64, error) {
	outFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("error creating output file: %w", err)
	}
	buffer := make([]byte, utils.DefaultBufferSize)
	written, err := io.CopyBuffer(outFile, body, buffer)
	if err != nil {
		outFile.Close()
		return written, fmt.Errorf("error writing response body: %w", err)
	}
	if err := outFile.Sync(); err != nil {
		outFile.Close()
		return written, fmt.Errorf("error syncing output file: %w", err)
	}
	return written, outFile.Close()
}
