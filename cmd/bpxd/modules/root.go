package modules

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/arloliu/bpx"
	"github.com/arloliu/bpx/compress"
	"github.com/arloliu/bpx/internal/logger"
)

const envPrefix = "BPXD"

// Configuration keys, settable in the config file, as BPXD_<KEY> environment
// variables or through the matching flags.
const (
	cfgLogLevel         = "log_level"
	cfgTempDir          = "temp_dir"
	cfgCompressionLevel = "compression_level"
)

var errNoFile = errors.New("no container given, use --file")

// globals holds the state shared by every subcommand.
type globals struct {
	cfgFile string
	file    string
	verbose bool

	v   *viper.Viper
	log *zap.Logger
}

// Execute runs the bpxd command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the bpxd command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{v: viper.New(), log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "bpxd",
		Short: "BPX debugging tools",
		Long: `bpxd inspects BPX containers and creates or extracts BPX packages (type P).

Settings are read from $HOME/.bpxd.yaml (or --config), then from BPXD_*
environment variables, then from flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = g.log.Sync()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.cfgFile, "config", "c", "", "config file (default is $HOME/.bpxd.yaml)")
	pf.StringVarP(&g.file, "file", "f", "", "path to the BPX file to inspect or create")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.String("log-level", logger.DefaultLevel, "log level: debug, info, warn or error")
	pf.String("temp-dir", "", "directory for temporary section files (default is the system temp dir)")
	pf.Int("compression-level", compress.DefaultPreset, "xz preset used for large sections (0-9)")

	_ = g.v.BindPFlag(cfgLogLevel, pf.Lookup("log-level"))
	_ = g.v.BindPFlag(cfgTempDir, pf.Lookup("temp-dir"))
	_ = g.v.BindPFlag(cfgCompressionLevel, pf.Lookup("compression-level"))

	cmd.AddCommand(
		newInfoCommand(g),
		newPackCommand(g),
		newUnpackCommand(g),
		newExportCommand(g),
	)

	return cmd
}

// init reads the configuration and builds the logger.
func (g *globals) init() error {
	if g.cfgFile != "" {
		g.v.SetConfigFile(g.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}

		g.v.AddConfigPath(home)
		g.v.SetConfigName(".bpxd")
		g.v.SetConfigType("yaml")
	}

	g.v.SetEnvPrefix(envPrefix)
	g.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	g.v.AutomaticEnv()

	if err := g.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if g.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	level := g.v.GetString(cfgLogLevel)
	if g.verbose {
		level = "debug"
	}

	log, err := logger.New(level)
	if err != nil {
		return err
	}
	g.log = log

	if used := g.v.ConfigFileUsed(); used != "" {
		g.log.Debug("using config file", zap.String("path", used))
	}

	return nil
}

// containerOptions translates the configuration into container codec options.
func (g *globals) containerOptions() []bpx.Option {
	return []bpx.Option{
		bpx.WithLogger(g.log),
		bpx.WithTempDir(g.v.GetString(cfgTempDir)),
		bpx.WithCompressionLevel(g.v.GetInt(cfgCompressionLevel)),
	}
}

func (g *globals) requireFile() (string, error) {
	if g.file == "" {
		return "", errNoFile
	}

	return g.file, nil
}
