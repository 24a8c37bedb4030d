package args

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
)

type GlobalArgs struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
}

func ProcessArgs(a *GlobalArgs, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config-path", "", "Config file path (yaml); environment variables are used when omitted")
	cmd.PersistentFlags().StringVar(&a.LogLevel, "log-level", "info", "Log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Enable debug logging")
}

// LoadConfig fills cfg from the config file when one is given, otherwise from the environment.
func (a *GlobalArgs) LoadConfig(cfg interface{}) error {
	if a.ConfigPath != "" {
		return cleanenv.ReadConfig(a.ConfigPath, cfg)
	}
	return cleanenv.ReadEnv(cfg)
}
