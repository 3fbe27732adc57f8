// Package main provides the tpmatch CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Matdata-eu/tp-lib/pkg/config"
	"github.com/Matdata-eu/tp-lib/pkg/crs"
	"github.com/Matdata-eu/tp-lib/pkg/logx"
	"github.com/Matdata-eu/tp-lib/pkg/matcher"
	"github.com/Matdata-eu/tp-lib/pkg/model"
	"github.com/Matdata-eu/tp-lib/pkg/netcache"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tpmatch",
		Short: "tpmatch - GNSS-to-rail-network map matching",
		Long: `tpmatch matches a sequence of GNSS fixes onto a topologically
connected rail network, producing a continuous train path and the
original fixes projected onto it.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tpmatch v%s (%s)\n", version, commit)
		},
	})

	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Match a GNSS fix batch against a network",
		RunE:  runMatch,
	}
	matchCmd.Flags().String("fixes", "", "path to a JSON fix batch (required)")
	matchCmd.Flags().String("network", "", "path to a JSON network (required)")
	matchCmd.Flags().String("config", "", "path to a YAML tuning config (optional)")
	matchCmd.Flags().String("cache-dir", "", "BadgerDB directory for the network cache (optional; empty disables persistence)")
	_ = matchCmd.MarkFlagRequired("fixes")
	_ = matchCmd.MarkFlagRequired("network")
	rootCmd.AddCommand(matchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// fixtureFile bundles a fix batch and a network in one JSON document, a
// thin adapter over the core's model types. runMatch does not use it: it
// reads the fixes and the network from the two separate --fixes and
// --network files.
type fixtureFile struct {
	Fixes   []model.GnssFix `json:"fixes"`
	Network model.Network   `json:"network"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	fixesPath, _ := cmd.Flags().GetString("fixes")
	networkPath, _ := cmd.Flags().GetString("network")
	configPath, _ := cmd.Flags().GetString("config")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	cfg = config.LoadFromEnv(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logx.SetLevel(parseLevel(cfg.LogLevel))

	fixes, err := readJSON[[]model.GnssFix](fixesPath)
	if err != nil {
		return fmt.Errorf("reading fixes: %w", err)
	}
	network, err := readNetwork(networkPath, cacheDir)
	if err != nil {
		return fmt.Errorf("reading network: %w", err)
	}

	var transformer crs.Transformer = crs.NoopTransformer{}
	if !allSameCRS(fixes, network.CRS) {
		proj := crs.NewProjTransformer(64)
		defer proj.Close()
		transformer = proj
	}

	result, err := matcher.Match(context.Background(), fixes, network, cfg, transformer)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func allSameCRS(fixes []model.GnssFix, networkCRS string) bool {
	for _, f := range fixes {
		if f.CRS != "" && f.CRS != networkCRS {
			return false
		}
	}
	return true
}

func readNetwork(path, cacheDir string) (model.Network, error) {
	network, err := readJSON[model.Network](path)
	if err != nil {
		return model.Network{}, err
	}

	if cacheDir == "" {
		return network, nil
	}
	cache, err := netcache.Open(cacheDir)
	if err != nil {
		logx.Warnf("network cache unavailable, continuing without it: %v", err)
		return network, nil
	}
	defer cache.Close()

	hash, err := netcache.HashNetwork(network)
	if err != nil {
		return network, nil
	}
	if cached, ok, err := cache.Get(hash); err == nil && ok {
		logx.Debugf("network cache hit for %s", hash)
		return cached, nil
	}
	if _, err := cache.Put(network); err != nil {
		logx.Warnf("failed to populate network cache: %v", err)
	}
	return network, nil
}

func readJSON[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

func parseLevel(name string) logx.Level {
	switch name {
	case "debug":
		return logx.LevelDebug
	case "warn":
		return logx.LevelWarn
	case "error":
		return logx.LevelError
	default:
		return logx.LevelInfo
	}
}
