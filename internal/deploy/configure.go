package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/t3rnops/t3rnctl/internal/config"
	"github.com/t3rnops/t3rnctl/internal/rpcconfig"
)

// Configure collects the private key, RPC endpoints and tuning values, then
// writes the environment file. It returns the wallet address and the chains
// left without an RPC.
func (o *Orchestrator) Configure(ctx context.Context, envPath string) (string, []string, error) {
	fmt.Fprintln(o.Out, "Configuring t3rn Executor environment...")

	raw, err := o.Prompter.AskSecret(ctx, "Wallet private key (input hidden): ")
	if err != nil {
		return "", nil, err
	}
	key, address, err := config.ParsePrivateKey(raw)
	if err != nil {
		return "", nil, err
	}
	fmt.Fprintf(o.Out, "Executor wallet: %s\n", address.Hex())

	flow := &rpcconfig.Flow{
		Chains:   o.Settings.RPC.Chains,
		Prober:   o.Prober,
		Prompter: o.Prompter,
		Out:      o.Out,
		Logger:   o.Logger,
	}
	selection, err := flow.Run(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("configure rpc: %w", err)
	}

	tuning, err := o.askTuning(ctx)
	if err != nil {
		return "", nil, err
	}

	rec, err := config.BuildEnvRecord(key, selection, o.Tunables, tuning)
	if err != nil {
		return "", nil, err
	}
	if err := config.WriteEnvFile(envPath, rec); err != nil {
		return "", nil, err
	}
	fmt.Fprintf(o.Out, "Environment written to %s.\n", envPath)
	fmt.Fprintln(o.Out, "Note: the file holds your private key and is readable only by you.")
	o.Logger.Info().Str("env_file", envPath).Strs("skipped", selection.Skipped()).Msg("environment written")
	return address.Hex(), selection.Skipped(), nil
}

// askTuning offers each tunable; declined ones keep their default.
func (o *Orchestrator) askTuning(ctx context.Context) (map[string]uint64, error) {
	tuning := make(map[string]uint64)
	for _, t := range o.Tunables {
		fmt.Fprintf(o.Out, "\n%s (default: %d)\n", t.Description, t.Default)
		custom, err := o.Prompter.Confirm(ctx, fmt.Sprintf("Customize this value? (y/n, default %d): ", t.Default))
		if err != nil {
			return nil, err
		}
		if !custom {
			continue
		}
		answer, err := o.Prompter.Ask(ctx, fmt.Sprintf("Enter an integer (e.g. %d): ", t.Default*2))
		if err != nil {
			return nil, err
		}
		v, err := config.ParseUint(strings.TrimSpace(answer))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Key, err)
		}
		tuning[t.Key] = v
	}
	return tuning, nil
}
