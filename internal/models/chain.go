package models

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
)

// AlchemyKeyPlaceholder is replaced by the operator's API key in Chain.AlchemyURL.
const AlchemyKeyPlaceholder = "{key}"

// Chain is a target chain the executor needs an RPC endpoint for.
type Chain struct {
	Name       string `yaml:"name"`
	PublicRPC  string `yaml:"public_rpc"`
	AlchemyURL string `yaml:"alchemy_url"` // template containing {key}
}

// AlchemyRPC builds the provider URL for the given API key. The key is
// escaped as a single path segment.
func (c Chain) AlchemyRPC(apiKey string) string {
	if c.AlchemyURL == "" {
		return ""
	}
	return strings.ReplaceAll(c.AlchemyURL, AlchemyKeyPlaceholder, url.PathEscape(apiKey))
}

// DefaultChains returns the chains the executor is configured for, in prompt order.
func DefaultChains() []Chain {
	return []Chain{
		{Name: "Arbitrum Sepolia", PublicRPC: "https://sepolia-rollup.arbitrum.io/rpc", AlchemyURL: "https://arb-sepolia.g.alchemy.com/v2/{key}"},
		{Name: "Base Sepolia", PublicRPC: "https://sepolia.base.org", AlchemyURL: "https://base-sepolia.g.alchemy.com/v2/{key}"},
		{Name: "Blast Sepolia", PublicRPC: "https://sepolia.blast.io", AlchemyURL: "https://blast-sepolia.g.alchemy.com/v2/{key}"},
		{Name: "l2rn", PublicRPC: "https://rpc.l2rn.io", AlchemyURL: "https://l2rn-sepolia.g.alchemy.com/v2/{key}"},
		{Name: "Monad Testnet", PublicRPC: "https://monad-testnet-rpc.monad.xyz", AlchemyURL: "https://monad-testnet.g.alchemy.com/v2/{key}"},
		{Name: "OP Sepolia", PublicRPC: "https://sepolia.optimism.io", AlchemyURL: "https://opt-sepolia.g.alchemy.com/v2/{key}"},
		{Name: "Unichain Sepolia", PublicRPC: "https://sepolia.unichain.org", AlchemyURL: "https://unichain-sepolia.g.alchemy.com/v2/{key}"},
	}
}

// RPCSource records which option produced a chain's URL.
type RPCSource string

const (
	RPCSourcePublic  RPCSource = "public"
	RPCSourceAlchemy RPCSource = "alchemy"
	RPCSourceCustom  RPCSource = "custom"
	RPCSourceSkipped RPCSource = "skipped"
)

// ChainRPC is the selected endpoint for one chain. An empty URL means skipped.
type ChainRPC struct {
	Chain  string
	URL    string
	Source RPCSource
}

// Skipped reports whether no endpoint was configured.
func (c ChainRPC) Skipped() bool {
	return c.URL == ""
}

// RPCSelection is the result of one configuration run: exactly one entry per
// chain, in chain order.
type RPCSelection struct {
	Entries []ChainRPC
}

// Skipped returns the names of chains without an endpoint.
func (s *RPCSelection) Skipped() []string {
	var out []string
	for _, e := range s.Entries {
		if e.Skipped() {
			out = append(out, e.Chain)
		}
	}
	return out
}

// URLs returns the chain→URL mapping. Skipped chains map to "".
func (s *RPCSelection) URLs() map[string]string {
	m := make(map[string]string, len(s.Entries))
	for _, e := range s.Entries {
		m[e.Chain] = e.URL
	}
	return m
}

// MarshalJSON encodes the selection as a JSON object keyed by chain name,
// keeping chain order. URLs are not HTML-escaped.
func (s RPCSelection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, e.Chain); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, e.URL); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
