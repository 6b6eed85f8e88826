package rpcprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcServer answers each JSON-RPC method with a canned raw body.
type rpcServer struct {
	mu      sync.Mutex
	methods []string
	replies map[string]string
	status  int
}

func (s *rpcServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
		ID     json.RawMessage
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	s.methods = append(s.methods, req.Method)
	s.mu.Unlock()

	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}
	body, ok := s.replies[req.Method]
	if !ok {
		body = `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (s *rpcServer) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.methods...)
}

func newProber(out *bytes.Buffer) *Prober {
	return New(2*time.Second, out, zerolog.Nop())
}

func TestProbeBlockNumber(t *testing.T) {
	srv := &rpcServer{replies: map[string]string{
		MethodBlockNumber: `{"jsonrpc":"2.0","id":1,"result":"0x1b4"}`,
	}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	var out bytes.Buffer
	assert.True(t, newProber(&out).Probe(context.Background(), ts.URL, "Base Sepolia"))
	assert.Equal(t, []string{MethodBlockNumber}, srv.calls())
	assert.Contains(t, out.String(), "Base Sepolia RPC is reachable.")
}

func TestProbeFallsBackToNetVersion(t *testing.T) {
	srv := &rpcServer{replies: map[string]string{
		MethodNetVersion: `{"jsonrpc":"2.0","id":1,"result":"84532"}`,
	}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	var out bytes.Buffer
	assert.True(t, newProber(&out).Probe(context.Background(), ts.URL, "l2rn"))
	assert.Equal(t, []string{MethodBlockNumber, MethodNetVersion}, srv.calls())
	assert.Contains(t, out.String(), "via net_version")
}

func TestProbeMissingResultIsUnreachable(t *testing.T) {
	srv := &rpcServer{replies: map[string]string{
		MethodBlockNumber: `{"jsonrpc":"2.0","id":1}`,
		MethodNetVersion:  `{"jsonrpc":"2.0","id":1}`,
	}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	var out bytes.Buffer
	assert.False(t, newProber(&out).Probe(context.Background(), ts.URL, "OP Sepolia"))
	assert.Len(t, srv.calls(), 2)
	assert.Contains(t, out.String(), "unreachable")
}

func TestProbeMalformedBody(t *testing.T) {
	srv := &rpcServer{replies: map[string]string{
		MethodBlockNumber: `<html>bad gateway</html>`,
		MethodNetVersion:  `not json`,
	}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	assert.False(t, newProber(&bytes.Buffer{}).Probe(context.Background(), ts.URL, "Blast Sepolia"))
}

func TestProbeHTTPError(t *testing.T) {
	srv := &rpcServer{status: http.StatusUnauthorized}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	assert.False(t, newProber(&bytes.Buffer{}).Probe(context.Background(), ts.URL, "Monad Testnet"))
	assert.Len(t, srv.calls(), 2)
}

func TestProbeTimeout(t *testing.T) {
	block := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(block)

	p := New(100*time.Millisecond, &bytes.Buffer{}, zerolog.Nop())
	start := time.Now()
	assert.False(t, p.Probe(context.Background(), ts.URL, "Unichain Sepolia"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestCallRejectsBadEndpoints(t *testing.T) {
	p := newProber(&bytes.Buffer{})
	for _, endpoint := range []string{"", "localhost:8545", "ftp://example.com", "http://"} {
		err := p.Call(context.Background(), endpoint, MethodBlockNumber)
		require.Error(t, err, endpoint)
	}
}
