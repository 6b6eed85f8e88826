package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"

	"github.com/t3rnops/t3rnctl/internal/models"
)

// Environment keys written for the executor.
const (
	EnvPrivateKey = "EXECUTOR_PRIVATE_KEY"
	EnvRPCURLs    = "EXECUTOR_RPC_URLS"
)

var (
	ErrEmptyPrivateKey   = errors.New("private key must not be empty")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidNumber     = errors.New("value must be a non-negative integer")
	ErrUnquotableRPCURLs = errors.New("rpc urls must not contain a single quote")
)

// ParsePrivateKey validates a hex secp256k1 key (optional 0x prefix) and
// returns the normalized hex and the derived address.
func ParsePrivateKey(raw string) (string, common.Address, error) {
	key := strings.TrimSpace(raw)
	if key == "" {
		return "", common.Address{}, ErrEmptyPrivateKey
	}
	hexKey := strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return "", common.Address{}, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return hexKey, crypto.PubkeyToAddress(pk.PublicKey), nil
}

// ParseUint accepts only decimal digits.
func ParseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return n, nil
}

// BuildEnvRecord assembles the executor environment in its fixed line order.
// tuning holds the final value for every models.Tunable key.
func BuildEnvRecord(privateKey string, selection *models.RPCSelection, tunables []models.Tunable, tuning map[string]uint64) (*models.EnvRecord, error) {
	if strings.TrimSpace(privateKey) == "" {
		return nil, ErrEmptyPrivateKey
	}
	if selection == nil {
		selection = &models.RPCSelection{}
	}
	rpcJSON, err := selection.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode rpc urls: %w", err)
	}
	if bytes.IndexByte(rpcJSON, '\'') >= 0 {
		return nil, ErrUnquotableRPCURLs
	}

	rec := &models.EnvRecord{}
	rec.Add("EXECUTOR_PROCESS_BIDS_ENABLED", "true")
	rec.Add("EXECUTOR_PROCESS_ORDERS_ENABLED", "true")
	rec.Add("EXECUTOR_PROCESS_CLAIMS_ENABLED", "true")
	rec.Add(EnvPrivateKey, strconv.Quote(privateKey))
	rec.Add("LOG_LEVEL", "info")
	rec.Add("LOG_PRETTY", "true")
	rec.Add(EnvRPCURLs, "'"+string(rpcJSON)+"'")
	for _, t := range tunables {
		v, ok := tuning[t.Key]
		if !ok {
			v = t.Default
		}
		rec.Add(t.Key, strconv.FormatUint(v, 10))
	}
	return rec, nil
}

// WriteEnvFile overwrites path with the record and restricts it to the owner.
func WriteEnvFile(path string, rec *models.EnvRecord) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for i, v := range rec.Vars {
		if i > 0 {
			w.WriteByte('\n')
		}
		fmt.Fprintf(w, "%s=%s", v.Key, v.Value)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	// O_CREATE permissions don't apply to an existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	return nil
}

// ReadEnvFile parses an executor .env file.
func ReadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return env, nil
}

// ConfiguredRPCs decodes EXECUTOR_RPC_URLS from a parsed env file.
func ConfiguredRPCs(env map[string]string) (map[string]string, error) {
	raw, ok := env[EnvRPCURLs]
	if !ok {
		return nil, fmt.Errorf("%s not set", EnvRPCURLs)
	}
	var urls map[string]string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, fmt.Errorf("decode %s: %w", EnvRPCURLs, err)
	}
	return urls, nil
}
