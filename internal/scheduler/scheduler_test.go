package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gribhttp "github.com/tanq16/gribdl/internal/downloaders/http"
	"github.com/tanq16/gribdl/internal/utils"
)

func makeTasks(n int) []utils.DownloadTask {
	tasks := make([]utils.DownloadTask, n)
	for i := range tasks {
		name := fmt.Sprintf("f%03d.grb", i)
		tasks[i] = utils.DownloadTask{URL: "https://example.invalid/" + name, Filename: name}
	}
	return tasks
}

type gatedFetcher struct {
	started  chan struct{}
	release  chan struct{}
	inflight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	seen     map[string]int
}

func newGatedFetcher(n int) *gatedFetcher {
	return &gatedFetcher{
		started: make(chan struct{}, n),
		release: make(chan struct{}),
		seen:    map[string]int{},
	}
}

func (f *gatedFetcher) Fetch(ctx context.Context, task utils.DownloadTask) gribhttp.Outcome {
	cur := f.inflight.Add(1)
	for {
		peak := f.peak.Load()
		if cur <= peak || f.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	f.started <- struct{}{}
	<-f.release
	f.inflight.Add(-1)
	f.mu.Lock()
	f.seen[task.Filename]++
	f.mu.Unlock()
	return gribhttp.Outcome{Kind: gribhttp.Success, Task: task, Bytes: 1}
}

func TestWorkerCount(t *testing.T) {
	for k := 0; k <= 10; k++ {
		assert.Equal(t, min(k, 4), WorkerCount(k, 0), "k=%d", k)
	}
	assert.Equal(t, 2, WorkerCount(10, 2))
	assert.Equal(t, 4, WorkerCount(10, 16))
	assert.Equal(t, 1, WorkerCount(1, 3))
}

func TestRunSpawnsBoundedWorkers(t *testing.T) {
	for _, k := range []int{1, 3, 4, 5, 9} {
		t.Run(fmt.Sprint(k), func(t *testing.T) {
			want := min(k, utils.MaxWorkers)
			f := newGatedFetcher(k)
			done := make(chan Summary)
			go func() {
				done <- Run(context.Background(), makeTasks(k), f, Options{Logger: zerolog.Nop()})
			}()

			for i := 0; i < want; i++ {
				select {
				case <-f.started:
				case <-time.After(5 * time.Second):
					t.Fatalf("only %d of %d workers started", i, want)
				}
			}
			select {
			case <-f.started:
				t.Fatalf("more than %d fetches in flight", want)
			case <-time.After(50 * time.Millisecond):
			}
			close(f.release)

			summary := <-done
			assert.Equal(t, want, summary.Workers)
			assert.EqualValues(t, want, f.peak.Load())
			assert.Equal(t, k, summary.Attempted)
			assert.Equal(t, k, summary.Downloaded)
			assert.NoError(t, summary.Err)
			require.Len(t, f.seen, k)
			for name, n := range f.seen {
				assert.Equal(t, 1, n, name)
			}
		})
	}
}

func TestRunEmptyBatch(t *testing.T) {
	f := newGatedFetcher(0)
	summary := Run(context.Background(), nil, f, Options{Logger: zerolog.Nop()})
	assert.Zero(t, summary.Workers)
	assert.Zero(t, summary.Attempted)
	assert.Empty(t, f.seen)
}

type scriptedFetcher map[string]gribhttp.Kind

func (s scriptedFetcher) Fetch(ctx context.Context, task utils.DownloadTask) gribhttp.Outcome {
	out := gribhttp.Outcome{Kind: s[task.Filename], Task: task}
	switch out.Kind {
	case gribhttp.Success:
		out.Bytes = 10
		out.Path = "/out/" + task.Filename
	case gribhttp.TransportError:
		out.Err = errors.New("connection reset by peer")
	}
	return out
}

func TestRunIsolatesFailures(t *testing.T) {
	tasks := makeTasks(6)
	script := scriptedFetcher{}
	for i, task := range tasks {
		script[task.Filename] = gribhttp.Kind(i % 3)
	}

	summary := Run(context.Background(), tasks, script, Options{Logger: zerolog.New(zerolog.NewConsoleWriter(zerolog.ConsoleTestWriter(t)))})
	assert.Equal(t, 6, summary.Attempted)
	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, 2, summary.Unavailable)
	assert.Equal(t, 2, summary.Failed)
	assert.EqualValues(t, 20, summary.Bytes)
	require.Error(t, summary.Err)
	assert.True(t, strings.Contains(summary.Err.Error(), "connection reset by peer"))
	assert.Len(t, summary.Outcomes, 6)
}

func TestQueueDrains(t *testing.T) {
	q := NewQueue(makeTasks(3))
	assert.Equal(t, 3, q.Len())
	var names []string
	for task, ok := q.Next(); ok; task, ok = q.Next() {
		names = append(names, task.Filename)
	}
	assert.Equal(t, []string{"f000.grb", "f001.grb", "f002.grb"}, names)
	assert.Zero(t, q.Len())
	_, ok := q.Next()
	assert.False(t, ok)
}
