package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/samber/lo"

	"github.com/integrail/snapsearch/pkg/client/dto"
)

const testApiKey = "test-key"

// fakeBackend imitates a Browser-as-a-Service backend rendering a fixed page.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	html     string
	failing  map[string]string
	received []string
	secrets  []map[string]string
	stopped  chan struct{}
	stopOnce sync.Once
}

func newFakeBackend(t *testing.T, html string) *fakeBackend {
	b := &fakeBackend{
		html:    html,
		failing: map[string]string{},
		stopped: make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(startEndpoint, b.start)
	mux.HandleFunc(messageEndpoint, b.message)
	b.Server = httptest.NewServer(mux)
	t.Cleanup(func() {
		b.CloseClientConnections()
		b.Close()
	})
	return b
}

// failOn makes every program starting with fn return errMsg.
func (b *fakeBackend) failOn(fn, errMsg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing[fn] = errMsg
}

func (b *fakeBackend) programs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.received...)
}

func (b *fakeBackend) receivedSecrets() []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]string(nil), b.secrets...)
}

func (b *fakeBackend) start(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+testApiKey {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	_ = json.NewEncoder(w).Encode(dto.BrowserMessageOut{SessionID: "session-1"})
	w.(http.Flusher).Flush()
	select {
	case <-b.stopped:
	case <-r.Context().Done():
	}
}

func (b *fakeBackend) message(w http.ResponseWriter, r *http.Request) {
	var in dto.BrowserMessageIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	b.received = append(b.received, in.Program)
	b.secrets = append(b.secrets, in.Secrets)
	fn, _, _ := strings.Cut(in.Program, "(")
	errMsg := b.failing[fn]
	b.mu.Unlock()

	out := dto.BrowserMessageOut{SessionID: in.SessionID, RequestID: in.RequestID}
	switch {
	case errMsg != "":
		out.Error = errMsg
	case fn == "outerHtml":
		out.Value = b.html
	case fn == "takeScreenshot":
		out.Screenshots = map[string][]byte{screenshotName: []byte("\x89PNG")}
	}
	if lo.FromPtr(in.StopSession) {
		b.stopOnce.Do(func() { close(b.stopped) })
	}

	enc := json.NewEncoder(w)
	// a stale message from an earlier request precedes the answer
	_ = enc.Encode(dto.BrowserMessageOut{SessionID: in.SessionID, RequestID: "stale"})
	_ = enc.Encode(out)
}

func testConfig(url string) Config {
	return Config{
		Url:            url,
		ApiKey:         testApiKey,
		Timeout:        "60s",
		MessageTimeout: "5s",
	}
}

type recordingReporter struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingReporter) Report(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingReporter) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}
