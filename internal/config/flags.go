package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagSeed    = flag.Uint64("seed", 0, "Random seed for pickup and door draws")
	flagLayout  = flag.String("layout", "", "Path to layout fixture (.yaml or .yaml.zst)")
	flagCatalog = flag.String("catalog", "", "Path to asset catalog (.yaml or .yaml.zst)")
	flagOut     = flag.String("out", "", "Output mesh path (.obj or .obj.zst)")
)

// ParseFlags parses command-line flags that follow the subcommand.
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed != 0 {
		cfg.Level.Seed = *flagSeed
	}
	if *flagLayout != "" {
		cfg.Layout.Path = *flagLayout
	}
	if *flagCatalog != "" {
		cfg.Assets.Catalog = *flagCatalog
	}
	if *flagOut != "" {
		cfg.Export.Path = *flagOut
	}
}
