package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/industriverse/industriverse-sub012/adapters/frames"
	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal/canonical"
	"github.com/industriverse/industriverse-sub012/internal/classifier"
	"github.com/industriverse/industriverse-sub012/internal/errors"
	"github.com/industriverse/industriverse-sub012/internal/pipeline"
	"github.com/industriverse/industriverse-sub012/internal/testkit"
)

// frameFlags are shared by every command that loads telemetry
type frameFlags struct {
	format   string
	column   string
	sheet    string
	jsonPath string
	window   int
	stride   int
}

func (f *frameFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Input format: csv|xlsx|json (default from extension)")
	cmd.Flags().StringVar(&f.column, "column", "", "Column to read from tabular input (default: first numeric)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet to read from xlsx input (default: first)")
	cmd.Flags().StringVar(&f.jsonPath, "json-path", "", "gjson path selecting the samples in JSON input")
	cmd.Flags().IntVar(&f.window, "window", 0, "Cut each series into frames of this many samples")
	cmd.Flags().IntVar(&f.stride, "stride", 0, "Step between windows (default: window)")
}

// load reads frames from each path, or samples from stdin when no path is given
func (f *frameFlags) load(a *app, cmd *cobra.Command, paths []string) ([]physics.TelemetryFrame, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		samples, err := frames.ParseSamples(data)
		if err != nil {
			return nil, err
		}
		return []physics.TelemetryFrame{physics.NewTelemetryFrame("stdin", samples, nil)}, nil
	}

	var out []physics.TelemetryFrame
	for _, path := range paths {
		cfg := frames.Config{
			FilePath: path,
			Format:   frames.Format(f.format),
			Column:   f.column,
			Sheet:    f.sheet,
			JSONPath: f.jsonPath,
			Window:   f.window,
			Stride:   f.stride,
		}
		loaded, err := frames.NewReader(cfg, a.logger).Read()
		if err != nil {
			return nil, err
		}
		out = append(out, loaded...)
	}
	return out, nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var ff frameFlags
	var workers int

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Assess telemetry frames and print a JSON batch report",
		Long: `Extract, classify, detect and fuse every frame found in the given files.
With no files, whitespace or comma separated samples are read from stdin.

Example: shieldctl analyze pump.csv --column vibration --window 256`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ff.load(a, cmd, args)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.config.Pipeline.Workers
			}
			report, err := pipeline.NewRunner(a.pipeline, workers, a.logger).ProcessBatch(cmd.Context(), loaded)
			if report != nil {
				if encErr := writeJSON(cmd.OutOrStdout(), report); encErr != nil {
					return encErr
				}
			}
			return err
		},
	}
	ff.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent frames (default: SHIELD_WORKERS)")
	return cmd
}

type transitionReport struct {
	From           physics.Signature            `json:"from"`
	To             physics.Signature            `json:"to"`
	Transition     physics.TransitionValidation `json:"transition"`
	TransitionType string                       `json:"transition_type"`
}

func newTransitionCmd(a *app) *cobra.Command {
	var ff frameFlags

	cmd := &cobra.Command{
		Use:   "transition [from-file] [to-file]",
		Short: "Compare the first frame of two files as a state transition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sigs [2]physics.Signature
			for i, path := range args {
				loaded, err := ff.load(a, cmd, []string{path})
				if err != nil {
					return err
				}
				if len(loaded) == 0 {
					return errors.InvalidInput(fmt.Sprintf("%s holds no frames", path))
				}
				sigs[i], err = a.pipeline.ExtractAndClassify(loaded[0])
				if err != nil {
					return errors.Wrapf(err, "%s", path)
				}
			}
			tv := a.pipeline.ValidateTransition(sigs[0], sigs[1])
			return writeJSON(cmd.OutOrStdout(), transitionReport{
				From:           sigs[0],
				To:             sigs[1],
				Transition:     tv,
				TransitionType: tv.TransitionType(),
			})
		},
	}
	ff.register(cmd)
	return cmd
}

type hashLine struct {
	FrameID string           `json:"frame_id"`
	Primary physics.DomainID `json:"primary_domain"`
	Score   float64          `json:"primary_score"`
	Hash    core.Hash256     `json:"pde_hash"`
}

func newHashCmd(a *app) *cobra.Command {
	var ff frameFlags

	cmd := &cobra.Command{
		Use:   "hash [files...]",
		Short: "Print the canonical signature hash of each frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ff.load(a, cmd, args)
			if err != nil {
				return err
			}
			lines := make([]hashLine, 0, len(loaded))
			for _, frame := range loaded {
				sig, err := a.pipeline.ExtractAndClassify(frame)
				if err != nil {
					return errors.Wrapf(err, "frame %s", frame.ID)
				}
				lines = append(lines, hashLine{
					FrameID: frame.ID.String(),
					Primary: sig.Primary,
					Score:   sig.PrimaryScore(),
					Hash:    sig.PDEHash,
				})
			}
			return writeJSON(cmd.OutOrStdout(), lines)
		},
	}
	ff.register(cmd)
	return cmd
}

func newFixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Recompute the canonical layout test vectors",
		Long: `Print every golden vector of the canonical hash layout together with
the digest this build computes. Fails when any digest differs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDOMAIN\tSCORE\tSHA256\tOK")
			mismatches := 0
			for _, fx := range canonical.Fixtures() {
				got := canonical.Hash(fx.Domain, fx.Score, fx.Features).String()
				ok := got == fx.Digest
				if !ok {
					mismatches++
				}
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%t\n", fx.Name, fx.Domain, fx.Score, got, ok)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if mismatches > 0 {
				return errors.InternalError(fmt.Sprintf("%d canonical fixtures do not match", mismatches))
			}
			return nil
		},
	}
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Print the built-in domain template table as YAML",
		Long: `Print the built-in template table. Edit the output and pass it back with
--templates (or SHIELD_TEMPLATES_FILE) to tune the classifier.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return classifier.EncodeTemplates(cmd.OutOrStdout(), classifier.DefaultTemplateSet())
		},
	}
}

func newDemoCmd(a *app) *cobra.Command {
	signals := testkit.DefaultSignalConfig()

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Assess one synthetic frame of every reference shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := testkit.NewSignalGenerator(signals)
			kinds := testkit.AllSignalKinds()
			loaded := make([]physics.TelemetryFrame, 0, len(kinds))
			for _, kind := range kinds {
				frame, err := gen.Frame(kind)
				if err != nil {
					return err
				}
				loaded = append(loaded, frame)
			}

			report, err := pipeline.NewRunner(a.pipeline, a.config.Pipeline.Workers, a.logger).ProcessBatch(cmd.Context(), loaded)
			if err != nil {
				return err
			}
			return writeDemoTable(cmd.OutOrStdout(), kinds, report)
		},
	}
	cmd.Flags().IntVar(&signals.Samples, "samples", signals.Samples, "Samples per frame")
	cmd.Flags().Float64Var(&signals.Cycles, "cycles", signals.Cycles, "Periods per frame for periodic shapes")
	cmd.Flags().Int64Var(&signals.Seed, "seed", signals.Seed, "Random seed")
	return cmd
}

func writeDemoTable(out io.Writer, kinds []testkit.SignalKind, report *pipeline.BatchReport) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SHAPE\tPRIMARY\tMAX DETECTOR\tMAX THREAT\tCONSENSUS\tICI\tRESPONSE")
	for i, item := range report.Items {
		if item.Assessment == nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\t%s\n", kinds[i], item.Error)
			continue
		}
		res := item.Assessment.Fusion
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%s\t%.2f\t%s\n",
			kinds[i], item.Assessment.Signature.Primary, res.MaxThreatDetector,
			res.MaxThreatScore, res.Consensus, res.ICIScore, res.Response)
	}
	return w.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
