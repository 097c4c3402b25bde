package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/angelospk/subgrab/internal/constants"
	"github.com/angelospk/subgrab/pkg/pipeline"
)

// Configuration keys.
const (
	CfgKeyLanguage  = "language"
	CfgKeyBaseURL   = "baseurl"
	CfgKeyUserAgent = "useragent"
)

var (
	// Used for flags.
	cfgFile   string
	movieFile string
	language  string
	topN      int
	verbose   bool

	// RootCmd represents the base command. Exported for use in tests.
	RootCmd = &cobra.Command{
		Use:   "subgrab",
		Short: "Download subtitles for a movie file by its content hash.",
		Long: `subgrab fingerprints a movie file, looks the hash up on the subtitle
host, ranks the matching subtitle packages, downloads the chosen one and
writes the extracted subtitle next to the movie. Optionally the subtitle
is muxed into a copy of the video as a soft track.

Examples:
  subgrab --movie-file /films/movie.mkv
  subgrab -m movie.mkv -l pol -t 3`,
		SilenceUsage: true,
		RunE:         runFetch,
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.subgrab/config.yaml or ./config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	RootCmd.Flags().StringVarP(&movieFile, "movie-file", "m", "", "path of the movie file to find subtitles for (required)")
	RootCmd.Flags().StringVarP(&language, "language", "l", constants.DefaultLanguage, "subtitle language code")
	RootCmd.Flags().IntVarP(&topN, "top", "t", 1, "how many top-ranked results to offer")
	_ = RootCmd.MarkFlagRequired("movie-file")

	_ = viper.BindPFlag(CfgKeyLanguage, RootCmd.Flags().Lookup("language"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".subgrab"))
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetDefault(CfgKeyLanguage, constants.DefaultLanguage)
	viper.SetDefault(CfgKeyBaseURL, constants.DefaultBaseURL)
	viper.SetDefault(CfgKeyUserAgent, constants.DefaultUserAgent)

	viper.AutomaticEnv()          // read in environment variables that match
	viper.SetEnvPrefix("SUBGRAB") // e.g. SUBGRAB_LANGUAGE

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error reading config file (%s): %v\n", viper.ConfigFileUsed(), err)
		}
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, logger)
	outputPath, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	// Only the final output path goes to stdout.
	fmt.Println(outputPath)
	return nil
}

// buildConfig validates the flags and folds in viper-backed settings.
func buildConfig() (pipeline.Config, error) {
	if movieFile == "" {
		return pipeline.Config{}, fmt.Errorf("--movie-file is required")
	}
	if _, err := os.Stat(movieFile); err != nil {
		return pipeline.Config{}, fmt.Errorf("movie file %q: %w", movieFile, err)
	}
	if topN < 1 {
		return pipeline.Config{}, fmt.Errorf("--top must be at least 1, got %d", topN)
	}

	return pipeline.Config{
		MoviePath: movieFile,
		Language:  viper.GetString(CfgKeyLanguage),
		TopN:      topN,
		BaseURL:   viper.GetString(CfgKeyBaseURL),
		UserAgent: viper.GetString(CfgKeyUserAgent),
	}, nil
}
