package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagOut         = flag.String("out", "", "Output PNG path")
	flagSize        = flag.Int("size", 0, "Texture edge length in texels")
	flagWorkers     = flag.Int("workers", 0, "Worker count (0 = one per CPU)")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWriteConfig = flag.String("write-config", "", "Write the effective config to a file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the destination of --write-config, if any.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagSize > 0 {
		cfg.Bake.Size = *flagSize
	}
	if *flagWorkers > 0 {
		cfg.Bake.Workers = *flagWorkers
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
}
