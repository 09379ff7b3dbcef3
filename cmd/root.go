// Package cmd implements the command-line interface for the archiver.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdarchive "github.com/jonesrussell/reddit-archiver/cmd/archive"
	cmderrors "github.com/jonesrussell/reddit-archiver/cmd/errors"
	cmdmigrate "github.com/jonesrussell/reddit-archiver/cmd/migrate"
	cmdstatus "github.com/jonesrussell/reddit-archiver/cmd/status"
)

const version = "1.0.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// rootCmd represents the root command for the archiver CLI.
	rootCmd = &cobra.Command{
		Use:   "reddit-archiver",
		Short: "Archive saved and upvoted reddit posts to disk",
		Long: `reddit-archiver walks the queue tables of a reddit export database,
downloads each post's media to the local data directory and records the
archival outcome per post.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so credentials are available to viper's env bindings.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reddit-archiver version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdarchive.Command())
	rootCmd.AddCommand(cmdstatus.Command())
	rootCmd.AddCommand(cmderrors.Command())
	rootCmd.AddCommand(cmdmigrate.Command())
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.reddit-archiver")
	}

	viper.SetEnvPrefix("ARCHIVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running without a config file is fine; defaults and env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}
	return nil
}
