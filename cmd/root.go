package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kbassistant/config"
	"kbassistant/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kbassistant",
	Short: "Internal knowledge assistant",
	Long: `kbassistant answers questions about company policies and procedures
using a fixed knowledge base and a hosted LLM.

Run 'kbassistant serve' to start the web chat and API, or
'kbassistant ask' to chat from the terminal against a running server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/kbassistant/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	if verbose {
		utils.SetLogger(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := utils.LoadEnvWithFallback(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	config.SetDefaults(viper.GetViper())
	config.BindEnv(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kbassistant"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "  KBA_PROVIDER:", viper.GetString("provider"))
		fmt.Fprintln(os.Stderr, "  KBA_MODEL:", viper.GetString("model"))
		fmt.Fprintln(os.Stderr, "  KBA_KNOWLEDGE_DIR:", viper.GetString("knowledge_dir"))
		fmt.Fprintln(os.Stderr, "  KBA_SERVER_URL:", viper.GetString("server_url"))
	}
}
