package commands

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/dyluth/fleetid/internal/config"
	"github.com/dyluth/fleetid/internal/printer"
	"github.com/dyluth/fleetid/pkg/naming"
	"github.com/dyluth/fleetid/pkg/registry"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string

	configPath string
	redisURL   string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleetid",
	Short: "fleetid - hierarchical identifiers for sub-agent fleets",
	Long: `fleetid allocates, parses and migrates sub-agent identifiers of the form
{Parent}.{Role}-{ID}, for example Forge.CodeBuilder-04.

IDs run 01..99 and then A1..Z9 per parent/role pair, and are never reused.
Allocation is stateless by default; point fleetid at Redis (--redis-url,
REDIS_URL or registry.url in fleetid.yml) to share one registry across
processes.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		printer.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		if verbose {
			log.SetOutput(cmd.ErrOrStderr())
		} else {
			log.SetOutput(io.Discard)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to fleetid.yml (built-in defaults if missing)")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "Registry Redis URL (overrides REDIS_URL and registry.url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log registry events to stderr")
}

// fleet bundles everything a command needs from fleetid.yml.
type fleet struct {
	cfg      *config.FleetConfig
	found    bool
	schema   *naming.Schema
	alloc    *naming.Allocator
	migrator *naming.Migrator
}

// loadFleet loads --config (or the defaults when the file is absent) and
// builds the schema, allocator and migrator from it.
func loadFleet() (*fleet, error) {
	cfg, found, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, printer.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{
				fmt.Sprintf("Fix %s", configPath),
				"Regenerate it:\n  fleetid init --force",
			},
		)
	}

	schema, err := cfg.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	migrator, err := cfg.Migrator(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to build migrator: %w", err)
	}

	return &fleet{
		cfg:      cfg,
		found:    found,
		schema:   schema,
		alloc:    naming.NewAllocator(schema),
		migrator: migrator,
	}, nil
}

// registryURL returns the effective registry URL: --redis-url, then
// REDIS_URL, then registry.url.
func (f *fleet) registryURL() string {
	if redisURL != "" {
		return redisURL
	}
	return f.cfg.RedisURL()
}

// connect opens and pings the shared registry.
func (f *fleet) connect(ctx context.Context) (*registry.Client, error) {
	url := f.registryURL()
	if url == "" {
		return nil, printer.Error(
			"no registry configured",
			"This command needs the shared Redis registry, but no URL is set.",
			[]string{
				"Pass it on the command line:\n  --redis-url redis://localhost:6379",
				"Export REDIS_URL",
				fmt.Sprintf("Set registry.url in %s", configPath),
			},
		)
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, printer.Error(
			"invalid registry URL",
			fmt.Sprintf("Could not parse '%s': %v", url, err),
			[]string{"Use the form redis://[user:password@]host:port[/db]"},
		)
	}

	client, err := registry.NewClient(opts, f.cfg.Fleet, f.alloc, registry.WithMaxRetries(*f.cfg.Registry.MaxRetries))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"registry unreachable",
			fmt.Sprintf("Error: %v", err),
			map[string]string{"URL": url, "Fleet": f.cfg.Fleet},
			[]string{"Check that Redis is running and reachable"},
		)
	}

	return client, nil
}
