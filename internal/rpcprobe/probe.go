// Package rpcprobe checks whether an EVM JSON-RPC endpoint answers requests.
package rpcprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds each probe request.
const DefaultTimeout = 5 * time.Second

// Methods tried in order; the second is only sent when the first fails.
const (
	MethodBlockNumber = "eth_blockNumber"
	MethodNetVersion  = "net_version"
)

// Prober reports whether an endpoint is reachable.
type Prober struct {
	Timeout    time.Duration
	HTTPClient *http.Client
	Out        io.Writer
	Logger     zerolog.Logger
}

// New creates a prober with the given per-request timeout.
func New(timeout time.Duration, out io.Writer, logger zerolog.Logger) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		Timeout:    timeout,
		HTTPClient: &http.Client{Timeout: timeout},
		Out:        out,
		Logger:     logger.With().Str("component", "rpcprobe").Logger(),
	}
}

// Probe sends eth_blockNumber, falling back once to net_version. The
// endpoint is reachable when either reply is a JSON-RPC object carrying a
// result. Errors are logged, never returned.
func (p *Prober) Probe(ctx context.Context, endpoint, label string) bool {
	p.printf("Testing %s RPC: %s ...\n", label, endpoint)

	err := p.Call(ctx, endpoint, MethodBlockNumber)
	if err == nil {
		p.printf("%s RPC is reachable.\n", label)
		return true
	}
	p.Logger.Debug().Str("chain", label).Str("method", MethodBlockNumber).Err(err).Msg("probe failed")

	err = p.Call(ctx, endpoint, MethodNetVersion)
	if err == nil {
		p.printf("%s RPC is reachable (via %s).\n", label, MethodNetVersion)
		return true
	}
	p.Logger.Info().Str("chain", label).Str("method", MethodNetVersion).Err(err).Msg("rpc unreachable")

	p.printf("Warning: %s RPC %s is unreachable.\n", label, endpoint)
	return false
}

// Call performs a single JSON-RPC call with no parameters and discards the
// result. A reply without a result field is an error.
func (p *Prober) Call(ctx context.Context, endpoint, method string) error {
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpClient := p.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	client, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer client.Close()

	var result json.RawMessage
	if err := client.CallContext(ctx, &result, method); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (p *Prober) printf(format string, args ...any) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, format, args...)
	}
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("empty endpoint")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host")
	}
	return nil
}
