package features

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"AssistantDashboard_V0.1/internal/geminiservice"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns a canned reply. When block is set, Invoke waits on it.
type fakeGenerator struct {
	mu      sync.Mutex
	raw     string
	err     error
	block   chan struct{}
	prompts []string
	schemas []*geminiservice.GeminiSchema
}

func (f *fakeGenerator) Invoke(ctx context.Context, prompt string, schema *geminiservice.GeminiSchema) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	block := f.block
	raw, err := f.raw, f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return raw, err
}

func (f *fakeGenerator) set(raw string, err error) {
	f.mu.Lock()
	f.raw, f.err = raw, err
	f.mu.Unlock()
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// recordingNotifier counts notifications per feature.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

type notification struct {
	feature Feature
	err     error
}

func (r *recordingNotifier) GenerationFinished(feature Feature, err error) {
	r.mu.Lock()
	r.events = append(r.events, notification{feature, err})
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.events...)
}

var errTransport = errors.New("dial tcp: connection refused")

func wait(t *testing.T, call *Call) error {
	t.Helper()
	require.NotNil(t, call)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := call.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "generation did not finish")
	return err
}
