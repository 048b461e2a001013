package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type rpcCall struct {
	Partition string
	Method    string
	Params    map[string]any
}

// fakeMyMPD answers JSON-RPC calls from a table of handlers and records every call.
type fakeMyMPD struct {
	t        *testing.T
	mu       sync.Mutex
	calls    []rpcCall
	handlers map[string]func(params map[string]any) (any, *BackendError)
}

func newFakeMyMPD(t *testing.T) (*fakeMyMPD, *httptest.Server) {
	t.Helper()
	f := &fakeMyMPD{t: t, handlers: map[string]func(map[string]any) (any, *BackendError){}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeMyMPD) on(method string, h func(params map[string]any) (any, *BackendError)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeMyMPD) reply(method string, result any) {
	f.on(method, func(map[string]any) (any, *BackendError) { return result, nil })
}

func (f *fakeMyMPD) recorded() []rpcCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpcCall(nil), f.calls...)
}

func (f *fakeMyMPD) methods() []string {
	var out []string
	for _, c := range f.recorded() {
		out = append(out, c.Method)
	}
	return out
}

func (f *fakeMyMPD) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		f.t.Errorf("expected JSON content type, got %q", ct)
	}

	var req struct {
		JSONRPC string         `json:"jsonrpc"`
		ID      int64          `json:"id"`
		Method  string         `json:"method"`
		Params  map[string]any `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.JSONRPC != "2.0" {
		f.t.Errorf("expected jsonrpc 2.0, got %q", req.JSONRPC)
	}

	f.mu.Lock()
	f.calls = append(f.calls, rpcCall{Partition: strings.TrimPrefix(r.URL.Path, "/api/"), Method: req.Method, Params: req.Params})
	h, ok := f.handlers[req.Method]
	f.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = &BackendError{Code: -32601, Message: "Method not found"}
	} else if result, berr := h(req.Params); berr != nil {
		resp["error"] = berr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func ok() map[string]any {
	return map[string]any{"message": "ok"}
}
