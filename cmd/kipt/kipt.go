package main

import (
	"context"
	"io"
	"strings"

	"github.com/NethermindEth/kipt/script"
	"github.com/NethermindEth/kipt/utils"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version = "dev"

const envPrefix = "KIPT"

const (
	configF         = "config"
	logLevelF       = "log-level"
	colourF         = "colour"
	rpcF            = "rpc"
	accountAddressF = "account-address"
	accountPrivKeyF = "account-privkey"
	accountLegacyF  = "account-legacy"
	journalF        = "journal"
	metricsF        = "metrics"
	metricsHostF    = "metrics-host"
	metricsPortF    = "metrics-port"
	otelEndpointF   = "otel-endpoint"
	maxGoroutinesF  = "max-goroutines"

	defaultConfig         = ""
	defaultColour         = true
	defaultRPC            = ""
	defaultAccountAddress = ""
	defaultAccountPrivKey = ""
	defaultAccountLegacy  = false
	defaultJournal        = ""
	defaultMetrics        = false
	defaultMetricsHost    = "localhost"
	defaultMetricsPort    = uint16(9090)
	defaultOtelEndpoint   = ""
	defaultMaxGoroutines  = 16

	configFlagUsage     = "The YAML configuration file."
	logLevelUsage       = "Options: debug, info, warn, error."
	colourUsage         = "Uses --colour=false command to disable colourized outputs (ANSI Escape Codes)."
	rpcUsage            = "Pre-sets the RPC global: a JSON-RPC URL or one of MAINNET, GOERLI-1, GOERLI-2."
	accountAddressUsage = "Pre-sets the ACCOUNT_ADDRESS global."
	accountPrivKeyUsage = "Pre-sets the ACCOUNT_PRIVKEY global. Prefer the KIPT_ACCOUNT_PRIVKEY environment variable."
	accountLegacyUsage  = "Pre-sets the ACCOUNT_IS_LEGACY global (Cairo 0 account calldata)."
	journalUsage        = "Directory of the outcome journal. Empty disables the journal."
	metricsUsage        = "Enables the Prometheus metrics endpoint on the default port."
	metricsHostUsage    = "The interface on which the Prometheus endpoint will listen for requests."
	metricsPortUsage    = "The port on which the Prometheus endpoint will listen for requests."
	otelEndpointUsage   = "OTLP/HTTP collector that receives operation spans. Empty disables tracing."
	maxGoroutinesUsage  = "Upper bound on concurrently running operations."
)

// Config is the command line configuration. Flags, KIPT_ environment
// variables and the YAML file are merged by viper.
type Config struct {
	script.Config `mapstructure:",squash"`

	LogLevel      utils.LogLevel `mapstructure:"log-level"`
	Colour        bool           `mapstructure:"colour"`
	Journal       string         `mapstructure:"journal"`
	Metrics       bool           `mapstructure:"metrics"`
	MetricsHost   string         `mapstructure:"metrics-host"`
	MetricsPort   uint16         `mapstructure:"metrics-port"`
	OtelEndpoint  string         `mapstructure:"otel-endpoint"`
	MaxGoroutines int            `mapstructure:"max-goroutines"`
}

// RunFn executes the script at path.
type RunFn func(ctx context.Context, cfg *Config, path string, out io.Writer) error

func NewCmd(run RunFn) *cobra.Command {
	var cfgFile string
	logLevel := utils.INFO

	kiptCmd := &cobra.Command{
		Use:     "kipt [flags] <script.lua>",
		Short:   "Runs Lua scripts that declare, deploy, invoke and call Starknet contracts.",
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
	}
	kiptCmd.SetVersionTemplate("kipt {{.Version}}\n")

	kiptCmd.Flags().BoolP("version", "V", false, "Prints the version.")
	kiptCmd.Flags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	kiptCmd.Flags().Var(&logLevel, logLevelF, logLevelUsage)
	kiptCmd.Flags().Bool(colourF, defaultColour, colourUsage)
	kiptCmd.Flags().String(rpcF, defaultRPC, rpcUsage)
	kiptCmd.Flags().String(accountAddressF, defaultAccountAddress, accountAddressUsage)
	kiptCmd.Flags().String(accountPrivKeyF, defaultAccountPrivKey, accountPrivKeyUsage)
	kiptCmd.Flags().Bool(accountLegacyF, defaultAccountLegacy, accountLegacyUsage)
	kiptCmd.Flags().String(journalF, defaultJournal, journalUsage)
	kiptCmd.Flags().Bool(metricsF, defaultMetrics, metricsUsage)
	kiptCmd.Flags().String(metricsHostF, defaultMetricsHost, metricsHostUsage)
	kiptCmd.Flags().Uint16(metricsPortF, defaultMetricsPort, metricsPortUsage)
	kiptCmd.Flags().String(otelEndpointF, defaultOtelEndpoint, otelEndpointUsage)
	kiptCmd.Flags().Int(maxGoroutinesF, defaultMaxGoroutines, maxGoroutinesUsage)

	kiptCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Usage()
		}

		cfg, err := loadConfig(cmd, cfgFile)
		if err != nil {
			return err
		}
		// Script failures are reported through the returned error; flag
		// misuse already printed the usage.
		cmd.SilenceUsage = true
		return run(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
	}

	kiptCmd.AddCommand(JournalCmd())
	return kiptCmd
}

func loadConfig(cmd *cobra.Command, cfgFile string) (*Config, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, err
	}
	return cfg, nil
}
