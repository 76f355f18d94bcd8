package scheduler

import "github.com/tanq16/gribdl/internal/utils"

// Queue is a closed, pre-filled channel of tasks. Producers fill it once
// before any worker starts; workers only dequeue.
type Queue struct {
	ch chan utils.DownloadTask
}

func NewQueue(tasks []utils.DownloadTask) *Queue {
	ch := make(chan utils.DownloadTask, len(tasks))
	for _, task := range tasks {
		ch <- task
	}
	close(ch)
	return &Queue{ch: ch}
}

// Next claims the next task. ok is false once the queue is drained.
func (q *Queue) Next() (task utils.DownloadTask, ok bool) {
	task, ok = <-q.ch
	return task, ok
}

// Len is the number of unclaimed tasks.
func (q *Queue) Len() int {
	return len(q.ch)
}
