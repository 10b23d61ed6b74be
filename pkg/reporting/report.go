/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Report generation for the Akaylee Instrument pass. Renders an
HTML summary of one instrumentation run (per-function tables of instrumented
blocks) and writes the machine-readable JSON report alongside it.
*/

package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/kleascm/akaylee-instrument/pkg/instrument"
	"github.com/kleascm/akaylee-instrument/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Version is stamped into report filenames
const Version = "1.0.0"

// ReportGenerator renders instrumentation reports into an output directory
type ReportGenerator struct {
	outputDir string
	logger    *logrus.Logger
	tmpl      *template.Template
}

// reportPage is the data handed to the HTML template
type reportPage struct {
	Report *instrument.Report
}

// NewReportGenerator creates a generator writing into outputDir
func NewReportGenerator(outputDir string, logger *logrus.Logger) (*ReportGenerator, error) {
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &ReportGenerator{
		outputDir: outputDir,
		logger:    logger,
		tmpl:      tmpl,
	}, nil
}

// GenerateHTML renders the HTML report and returns its path
func (rg *ReportGenerator) GenerateHTML(report *instrument.Report) (string, error) {
	path := filepath.Join(rg.outputDir, "instrumentation_report.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := rg.tmpl.Execute(f, &reportPage{Report: report}); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if rg.logger != nil {
		rg.logger.WithFields(logrus.Fields{
			"path":   path,
			"blocks": report.InstrumentedBlocks,
		}).Debug("HTML report generated")
	}
	return path, nil
}

// GenerateJSON writes the machine-readable report and returns its path
func (rg *ReportGenerator) GenerateJSON(report *instrument.Report) (string, error) {
	path, err := utils.WriteReport(rg.outputDir, "instrument", Version, report)
	if err != nil {
		return "", err
	}
	if rg.logger != nil {
		rg.logger.WithFields(logrus.Fields{
			"path": path,
		}).Debug("JSON report written")
	}
	return path, nil
}
