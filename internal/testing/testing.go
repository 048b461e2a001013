// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// FakeCall is one call recorded by [FakeCaller].
type FakeCall struct {
	Method string
	Params any
}

// FakeCaller is a test double for services.Caller. Results are JSON round-tripped into the
// caller's destination so tests can supply plain maps and structs.
type FakeCaller struct {
	mu        sync.Mutex
	calls     []FakeCall
	results   map[string]any
	errs      map[string]error
	partition string
}

// NewFakeCaller creates a [FakeCaller] addressed to the default partition.
func NewFakeCaller() *FakeCaller {
	return &FakeCaller{results: map[string]any{}, errs: map[string]error{}, partition: "default"}
}

// Reply sets the result returned for method.
func (f *FakeCaller) Reply(method string, result any) *FakeCaller {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[method] = result
	delete(f.errs, method)
	return f
}

// Fail makes method return err.
func (f *FakeCaller) Fail(method string, err error) *FakeCaller {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
	return f
}

func (f *FakeCaller) Call(ctx context.Context, method string, params, result any) error {
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Method: method, Params: params})
	err, failed := f.errs[method]
	res, ok := f.results[method]
	f.mu.Unlock()

	if failed {
		return err
	}
	if !ok {
		return fmt.Errorf("fake: no reply for %s", method)
	}
	if result == nil {
		return nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, result)
}

// Calls returns the recorded calls in order.
func (f *FakeCaller) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// Methods returns the recorded method names in order.
func (f *FakeCaller) Methods() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Method)
	}
	return out
}

func (f *FakeCaller) Partition() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.partition
}

func (f *FakeCaller) SetPartition(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.partition = name
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
