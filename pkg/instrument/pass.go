/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pass.go
Description: Pass driver for the Akaylee Instrument pass. Walks every function
and basic block of a program in order, applies the eligibility filter, injects
coverage probes into the selected blocks, declares the shared buffer symbol,
and reports a summary of the run.
*/

package instrument

import (
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-instrument/pkg/config"
	"github.com/kleascm/akaylee-instrument/pkg/ir"
	"github.com/kleascm/akaylee-instrument/pkg/logging"
)

// Pass is one configured instrumentation pass. A Pass may be run against
// multiple programs, but each program must be run through it exactly once:
// there is no guard against double instrumentation, and a second run would
// inject duplicate probes into the already selected blocks.
type Pass struct {
	cfg      *config.Config
	filter   *Filter
	injector *Injector
	logger   *logging.Logger
}

// Report summarizes one instrumentation run
type Report struct {
	SessionID          string            `json:"session_id"`          // Unique ID of this run
	Program            string            `json:"program"`             // Compilation unit name
	InstrumentedBlocks int               `json:"instrumented_blocks"` // Total probes injected
	Mode               string            `json:"mode"`                // Descriptive mode string
	Ratio              int               `json:"ratio"`               // Configured instrumentation ratio
	GeneratedAt        time.Time         `json:"generated_at"`        // When the run finished
	Functions          []*FunctionReport `json:"functions"`           // Per-function detail
}

// FunctionReport lists the instrumented blocks of one function
type FunctionReport struct {
	Name   string         `json:"name"`
	Blocks []*BlockReport `json:"blocks"`
}

// BlockReport identifies one instrumented block
type BlockReport struct {
	Label string `json:"label"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	ID    uint64 `json:"id"` // Identity constant baked into the probe
}

// NewPass builds a pass from validated configuration. The allow-list is
// loaded here, once; an unreadable allow-list file aborts construction.
func NewPass(cfg *config.Config, logger *logging.Logger) (*Pass, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	allowList, err := LoadAllowList(cfg.AllowListPath)
	if err != nil {
		return nil, err
	}
	return &Pass{
		cfg:      cfg,
		filter:   NewFilter(allowList),
		injector: NewInjector(cfg.AtomicCursor),
		logger:   logger,
	}, nil
}

// Run instruments prog in place and returns the run report. The shared
// coverage buffer pointer is declared into the program exactly once, with
// external linkage; its storage comes from the target's runtime.
func (p *Pass) Run(prog *ir.Program) (*Report, error) {
	prog.DeclareGlobal(AreaPtrSymbol, ir.LinkageExternal)

	if p.logger != nil && !p.cfg.Quiet {
		p.logger.LogPassStart(prog.Name, p.cfg.Mode(), p.cfg.Ratio, nil)
	}

	report := &Report{
		SessionID: uuid.New().String(),
		Program:   prog.Name,
		Mode:      p.cfg.Mode(),
		Ratio:     p.cfg.Ratio,
	}

	for _, fn := range prog.Functions {
		var fnReport *FunctionReport
		for _, b := range fn.Blocks {
			if !p.filter.Eligible(fn, b) {
				continue
			}
			id, err := p.injector.Inject(fn, b)
			if err != nil {
				return nil, err
			}
			if p.logger != nil {
				p.logger.LogBlockInstrumented(fn.Name, b.Label, id)
			}
			if fnReport == nil {
				fnReport = &FunctionReport{Name: fn.Name}
				report.Functions = append(report.Functions, fnReport)
			}
			blockReport := &BlockReport{Label: b.Label, ID: id}
			if b.Loc != nil {
				blockReport.File = b.Loc.Filename()
				blockReport.Line = b.Loc.Line
			}
			fnReport.Blocks = append(fnReport.Blocks, blockReport)
			report.InstrumentedBlocks++
		}
	}
	report.GeneratedAt = time.Now()

	p.summarize(report)
	return report, nil
}

// summarize emits the one-line operator banner unless quiet is configured
func (p *Pass) summarize(report *Report) {
	if p.cfg.Quiet || p.logger == nil {
		return
	}
	if report.InstrumentedBlocks == 0 {
		p.logger.Warning("No instrumentation targets found", map[string]interface{}{
			"program": report.Program,
		})
		return
	}
	p.logger.LogSummary(report.InstrumentedBlocks, report.Mode, report.Ratio)
}
