package job_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pardinian/studypath-api/internal/job"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeNotifier records every event it is asked to deliver.
type fakeNotifier struct {
	mu     sync.Mutex
	events []job.Event
	urls   []string
}

func (n *fakeNotifier) Notify(_ context.Context, url string, event job.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.urls = append(n.urls, url)
}

func (n *fakeNotifier) Events() []job.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]job.Event, len(n.events))
	copy(out, n.events)
	return out
}

func (n *fakeNotifier) eventsOfType(eventType string) []job.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []job.Event
	for _, e := range n.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
