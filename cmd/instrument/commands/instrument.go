/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: instrument.go
Description: Instrument command implementation for the Akaylee Instrument
pass. Loads a serialized program, runs the coverage instrumentation pass over
it, writes the instrumented program back out, and generates HTML/JSON reports
of the selected blocks.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-instrument/pkg/config"
	"github.com/kleascm/akaylee-instrument/pkg/instrument"
	"github.com/kleascm/akaylee-instrument/pkg/ir"
	"github.com/kleascm/akaylee-instrument/pkg/reporting"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunInstrument executes the instrumentation pass
func RunInstrument(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if !viper.GetBool(config.KeyQuiet) {
		fmt.Println("🧪 Akaylee Instrument - Coverage Instrumentation Pass")
		fmt.Println("=====================================================")
		fmt.Println()
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	// Build and validate pass configuration; misconfiguration is fatal
	// before anything is read or written
	cfg := config.FromViper(viper.GetViper())
	pass, err := instrument.NewPass(cfg, logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Load the program representation
	inputPath := viper.GetString("input")
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input program: %w", err)
	}
	prog, err := ir.DecodeProgram(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}

	// Run the pass. Each program must pass through exactly once: a second
	// run would inject duplicate probes.
	report, err := pass.Run(prog)
	if err != nil {
		return fmt.Errorf("instrumentation failed: %w", err)
	}

	// Write the instrumented program
	outputPath := viper.GetString("output")
	if outputPath == "" {
		outputPath = inputPath + ".instrumented.json"
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := ir.EncodeProgram(out, prog); err != nil {
		out.Close()
		return fmt.Errorf("failed to write instrumented program: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write instrumented program: %w", err)
	}

	// Generate reports if requested
	if reportDir := viper.GetString("report_dir"); reportDir != "" {
		generator, err := reporting.NewReportGenerator(reportDir, logger.GetLogger())
		if err != nil {
			return fmt.Errorf("failed to create report generator: %w", err)
		}
		if _, err := generator.GenerateHTML(report); err != nil {
			return fmt.Errorf("failed to generate HTML report: %w", err)
		}
		if _, err := generator.GenerateJSON(report); err != nil {
			return fmt.Errorf("failed to generate JSON report: %w", err)
		}
	}

	if !cfg.Quiet {
		fmt.Println()
		fmt.Printf("✨ Instrumented %d locations (%s mode, ratio %d%%)\n",
			report.InstrumentedBlocks, report.Mode, report.Ratio)
		fmt.Printf("   Session %s -> %s\n", report.SessionID, outputPath)
	}
	return nil
}
