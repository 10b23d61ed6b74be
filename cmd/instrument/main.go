/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee Instrument pass.
Provides command-line options, configuration management, and a clean user
interface for running coverage instrumentation over serialized programs.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-instrument/cmd/instrument/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	logFormat  string
	logDir     string

	// Input/output configuration
	inputPath  string
	outputPath string
	reportDir  string

	// Instrumentation configuration
	allowListPath string
	instRatio     int
	atomicCursor  bool

	// Mode flags (cosmetic: banner wording only)
	quiet   bool
	harden  bool
	useASAN bool
	useMSAN bool
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "akaylee-instrument",
		Short: "Akaylee Instrument - compile-time coverage instrumentation pass",
		Long: `Akaylee Instrument injects lightweight coverage probes into the control-flow
join points of a compiled program representation. The instrumented program records the
basic blocks it executes into a shared coverage buffer consumed by the Akaylee Fuzzer
to detect newly discovered behavior.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress the summary banner")

	// Bind persistent flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	// Add instrument command
	instrumentCmd := &cobra.Command{
		Use:   "instrument",
		Short: "Inject coverage probes into a serialized program",
		Long: `Run the instrumentation pass over a serialized program representation. Eligible
basic blocks (branch targets passing the allow-list filter) receive a probe that appends
the block's identity to the shared coverage buffer at runtime.`,
		RunE: commands.RunInstrument,
	}

	// Add instrument command flags
	instrumentCmd.Flags().StringVar(&inputPath, "input", "", "Path to serialized program (required)")
	instrumentCmd.Flags().StringVar(&outputPath, "output", "", "Path for the instrumented program (default: <input>.instrumented.json)")
	instrumentCmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for HTML/JSON reports (empty disables reports)")

	instrumentCmd.Flags().StringVar(&allowListPath, "allowlist", "", "Path to newline-separated filename suffix allow-list")
	instrumentCmd.Flags().IntVar(&instRatio, "ratio", 100, "Instrumentation ratio percentage (1-100)")
	instrumentCmd.Flags().BoolVar(&atomicCursor, "atomic-cursor", false, "Emit atomic fetch-add probes for multi-threaded targets")

	instrumentCmd.Flags().BoolVar(&harden, "harden", false, "Hardened mode (banner wording only)")
	instrumentCmd.Flags().BoolVar(&useASAN, "use-asan", false, "ASAN mode (banner wording only)")
	instrumentCmd.Flags().BoolVar(&useMSAN, "use-msan", false, "MSAN mode (banner wording only)")

	// Mark required flags
	instrumentCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input", instrumentCmd.Flags().Lookup("input"))
	viper.BindPFlag("output", instrumentCmd.Flags().Lookup("output"))
	viper.BindPFlag("report_dir", instrumentCmd.Flags().Lookup("report-dir"))
	viper.BindPFlag("inst_allowlist", instrumentCmd.Flags().Lookup("allowlist"))
	viper.BindPFlag("inst_ratio", instrumentCmd.Flags().Lookup("ratio"))
	viper.BindPFlag("atomic_cursor", instrumentCmd.Flags().Lookup("atomic-cursor"))
	viper.BindPFlag("harden", instrumentCmd.Flags().Lookup("harden"))
	viper.BindPFlag("use_asan", instrumentCmd.Flags().Lookup("use-asan"))
	viper.BindPFlag("use_msan", instrumentCmd.Flags().Lookup("use-msan"))

	rootCmd.AddCommand(instrumentCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
