package sim

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/randalmurphal/automerge/internal/command"
	"github.com/randalmurphal/automerge/internal/config"
	wferrors "github.com/randalmurphal/automerge/internal/errors"
	"github.com/randalmurphal/automerge/internal/progress"
)

// Report summarizes one simulation run.
type Report struct {
	Dir            string   `yaml:"dir"`
	Design         []string `yaml:"design"`
	Harness        string   `yaml:"harness"`
	Unit           string   `yaml:"unit"`
	Verdict        Verdict  `yaml:"verdict"`
	ExitCode       int      `yaml:"exit_code"`
	SimulatorExit  int      `yaml:"simulator_exit"`
	Waveform       string   `yaml:"waveform"`
	WaveformExists bool     `yaml:"waveform_exists"`
	Duration       string   `yaml:"duration"`
}

// Runner drives analyze, elaborate and run for one directory.
type Runner struct {
	cfg     config.SimConfig
	exec    command.Runner
	display *progress.Display
	logger  *slog.Logger
}

// NewRunner creates a Runner. A nil logger means slog.Default().
func NewRunner(cfg config.SimConfig, exec command.Runner, display *progress.Display, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, exec: exec, display: display, logger: logger}
}

func (r *Runner) markers() Markers {
	return Markers{Pass: r.cfg.PassMarker, Done: r.cfg.DoneMarker, Fail: r.cfg.FailMarker}
}

func (r *Runner) args(mode string, rest ...string) []string {
	args := []string{mode}
	if r.cfg.Std != "" {
		args = append(args, "--std="+r.cfg.Std)
	}
	return append(args, rest...)
}

// Run simulates the testbench found in dir. Errors are returned only when
// the simulation could not be started (no harness, analysis or elaboration
// failure, missing tool); test failures are reported through the verdict.
// Report.Duration is measured on the display's clock.
func (r *Runner) Run(dir string) (*Report, error) {
	src, err := Discover(os.DirFS(dir), r.cfg.Pattern, r.cfg.HarnessInfix)
	if err != nil {
		return nil, err
	}
	for _, extra := range src.Ignored {
		r.display.Warning(fmt.Sprintf("Ignoring additional testbench %s; using %s", extra, src.Harness))
	}
	unit := src.Unit()

	r.display.Info(fmt.Sprintf("🔍 [1/4] Analyzing design files with %s...", r.cfg.Tool))
	for _, f := range src.AnalysisOrder() {
		r.display.Info("  📄 " + f)
		if err := r.step(dir, "analyzing "+f, r.args("-a", f)...); err != nil {
			return nil, err
		}
	}

	r.display.Info("🔧 [2/4] Elaborating testbench: " + unit)
	if err := r.step(dir, "elaborating "+unit, r.args("-e", unit)...); err != nil {
		return nil, err
	}

	r.display.Info("🚦 [3/4] Running simulation...")
	runArgs := r.args("-r", unit, "--vcd="+r.cfg.Waveform)
	r.display.Info("▶️  " + command.String(r.cfg.Tool, runArgs...))
	out, err := r.exec.Run(dir, r.cfg.Tool, runArgs...)
	if err != nil {
		return nil, wferrors.ErrSimTool("running "+unit, err.Error()).WithCause(err)
	}
	r.display.Output("stdout", out.Stdout)
	r.display.Output("stderr", out.Stderr)

	verdict, code := Classify(out, r.markers())
	r.display.Info(verdict.message())

	report := &Report{
		Dir:           dir,
		Design:        src.Design,
		Harness:       src.Harness,
		Unit:          unit,
		Verdict:       verdict,
		ExitCode:      code,
		SimulatorExit: out.ExitCode,
		Waveform:      r.cfg.Waveform,
	}

	wave := filepath.Join(dir, r.cfg.Waveform)
	if _, err := os.Stat(wave); err == nil {
		report.WaveformExists = true
		r.display.Info("📦 [4/4] Waveform saved to " + r.cfg.Waveform)
		r.display.Info(fmt.Sprintf("    View with: gtkwave %s &", r.cfg.Waveform))
	} else {
		r.display.Warning(fmt.Sprintf("[4/4] Waveform %s was not produced", r.cfg.Waveform))
	}

	report.Duration = r.display.Elapsed()
	r.display.Info("   Total time: " + report.Duration)
	r.logger.Info("simulation finished",
		"unit", unit,
		"verdict", string(verdict),
		"exit_code", code,
		"simulator_exit", out.ExitCode)
	return report, nil
}

// step runs one preparatory simulator command and echoes its output.
func (r *Runner) step(dir, what string, args ...string) error {
	out, err := r.exec.Run(dir, r.cfg.Tool, args...)
	if err != nil {
		return wferrors.ErrSimTool(what, err.Error()).WithCause(err)
	}
	if !out.Success() {
		r.display.Output("stdout", out.Stdout)
		r.display.Output("stderr", out.Stderr)
		return wferrors.ErrSimTool(what, out.Diagnostic())
	}
	return nil
}
