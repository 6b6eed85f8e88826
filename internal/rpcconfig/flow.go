// Package rpcconfig selects an RPC endpoint for every chain the executor serves.
package rpcconfig

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/t3rnops/t3rnctl/internal/models"
)

// ErrCustomRPCUnreachable aborts the flow when an operator-supplied URL fails its probe.
var ErrCustomRPCUnreachable = errors.New("custom RPC is unreachable")

// ErrCustomRPCInvalid is returned for a custom URL that cannot be written to
// the environment file.
var ErrCustomRPCInvalid = errors.New("custom RPC URL must not contain a single quote")

// Prober checks endpoint liveness.
type Prober interface {
	Probe(ctx context.Context, url, label string) bool
}

// Prompter asks the operator a free-text question.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Flow walks the chain list: public RPC, then an Alchemy key, then a custom URL.
type Flow struct {
	Chains   []models.Chain
	Prober   Prober
	Prompter Prompter
	Out      io.Writer
	Logger   zerolog.Logger
}

// Run returns exactly one entry per chain, in chain order. A blank custom
// URL skips the chain; an unreachable custom URL aborts the whole flow.
func (f *Flow) Run(ctx context.Context) (*models.RPCSelection, error) {
	fmt.Fprintln(f.Out, "Checking RPC availability for the required chains...")

	sel := &models.RPCSelection{Entries: make([]models.ChainRPC, 0, len(f.Chains))}
	for _, chain := range f.Chains {
		entry, err := f.configureChain(ctx, chain)
		if err != nil {
			return nil, err
		}
		f.Logger.Info().Str("chain", chain.Name).Str("source", string(entry.Source)).Msg("rpc selected")
		sel.Entries = append(sel.Entries, entry)
	}

	f.report(sel)
	return sel, nil
}

func (f *Flow) configureChain(ctx context.Context, chain models.Chain) (models.ChainRPC, error) {
	if chain.PublicRPC != "" && f.Prober.Probe(ctx, chain.PublicRPC, chain.Name) {
		return models.ChainRPC{Chain: chain.Name, URL: chain.PublicRPC, Source: models.RPCSourcePublic}, nil
	}
	if err := ctx.Err(); err != nil {
		return models.ChainRPC{}, err
	}

	fmt.Fprintf(f.Out, "The public RPC for %s is unavailable. Provide an Alchemy API key or a custom RPC URL.\n", chain.Name)

	key, err := f.Prompter.Ask(ctx, "Option 1: Alchemy API key (leave blank for option 2): ")
	if err != nil {
		return models.ChainRPC{}, err
	}
	if key != "" {
		if url := chain.AlchemyRPC(key); url != "" {
			if f.Prober.Probe(ctx, url, chain.Name) {
				fmt.Fprintf(f.Out, "%s RPC configured: %s\n", chain.Name, url)
				return models.ChainRPC{Chain: chain.Name, URL: url, Source: models.RPCSourceAlchemy}, nil
			}
			fmt.Fprintln(f.Out, "Error: the RPC built from the Alchemy API key is unreachable. Check the key or your network.")
		}
	}

	custom, err := f.Prompter.Ask(ctx, fmt.Sprintf("Option 2: custom %s RPC URL (leave blank to skip this chain): ", chain.Name))
	if err != nil {
		return models.ChainRPC{}, err
	}
	if custom == "" {
		fmt.Fprintf(f.Out, "Skipping RPC for %s; the executor may not handle orders on it.\n", chain.Name)
		return models.ChainRPC{Chain: chain.Name, Source: models.RPCSourceSkipped}, nil
	}
	// EXECUTOR_RPC_URLS is single-quoted in the env file.
	if strings.ContainsRune(custom, '\'') {
		return models.ChainRPC{}, fmt.Errorf("%w: %s", ErrCustomRPCInvalid, chain.Name)
	}
	if !f.Prober.Probe(ctx, custom, chain.Name) {
		return models.ChainRPC{}, fmt.Errorf("%w: %s (%s)", ErrCustomRPCUnreachable, chain.Name, custom)
	}
	fmt.Fprintf(f.Out, "%s RPC configured: %s\n", chain.Name, custom)
	return models.ChainRPC{Chain: chain.Name, URL: custom, Source: models.RPCSourceCustom}, nil
}

func (f *Flow) report(sel *models.RPCSelection) {
	if skipped := sel.Skipped(); len(skipped) > 0 {
		fmt.Fprintln(f.Out, "Warning: no RPC configured for these chains; the executor may not process their orders:")
		for _, name := range skipped {
			fmt.Fprintf(f.Out, "- %s\n", name)
		}
		fmt.Fprintln(f.Out, "Configure at least the key chains (Arbitrum Sepolia, OP Sepolia).")
	}

	fmt.Fprintln(f.Out, "RPC configuration complete:")
	for _, e := range sel.Entries {
		fmt.Fprintf(f.Out, "%s: %s\n", e.Chain, e.URL)
	}
}
