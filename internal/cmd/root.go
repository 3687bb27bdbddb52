package cmd

import (
	"strings"

	"github.com/photogolffrance/coupe-hdf-app/internal/cmd/config"
	appconfig "github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "coupe",
	Short: "Team selection for the golf club cup",
	Long: `Coupe keeps the club roster and selects the team of players whose
official total index, with the highest indices capped, is the closest to
the minimum required while including every captain's pick.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/coupe/config.yaml)")
	rootCmd.PersistentFlags().String("roster", "", "roster file (default is roster.json in the config directory)")
	bindGlobalFlags()

	config.Register(rootCmd)
}

func bindGlobalFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("roster.path", rootCmd.PersistentFlags().Lookup("roster"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	appconfig.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(appconfig.ConfigDir())
		viper.AddConfigPath("$HOME/.config/coupe")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("COUPE")
	// e.g., COUPE_SELECTION_THRESHOLD for selection.threshold
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
