package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Compass/internal/definition"
	"github.com/MikeSquared-Agency/Compass/internal/report"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
)

// snapshotFile is the on-disk rating format. JSON parses too since the
// decoder is YAML.
type snapshotFile struct {
	Responses map[string]scoring.TopicScore `yaml:"responses"`
	Touched   map[string]bool               `yaml:"touched"`
}

func (f snapshotFile) snapshot() scoring.Snapshot {
	touched := f.Touched
	if touched == nil {
		touched = make(map[string]bool, len(f.Responses))
		for id := range f.Responses {
			touched[id] = true
		}
	}
	return scoring.NewSnapshot(f.Responses, touched)
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate <assessment-id> <ratings-file>",
		Short: "Build a report from a ratings file",
		Long: `Evaluate a ratings file against an assessment and print the report.
Use "-" as the ratings file to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: runEvaluate,
	}
	cmd.Flags().String("format", "json", "output format: json or text")
	return cmd
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "text" {
		return fmt.Errorf("unknown format %q", format)
	}
	dir, opts, err := settings(cmd)
	if err != nil {
		return err
	}

	c, err := definition.Load(dir)
	if err != nil {
		return err
	}
	def, ok := c.Assessment(args[0])
	if !ok {
		return fmt.Errorf("assessment %q not found in %s", args[0], dir)
	}

	input, err := readSnapshot(cmd.InOrStdin(), args[1])
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	rep := report.NewBuilder(opts, logger).Build(def, input.snapshot(), c.Rules, c.Templates)

	out := cmd.OutOrStdout()
	if format == "text" {
		writeText(out, rep)
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func readSnapshot(stdin io.Reader, path string) (snapshotFile, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return snapshotFile{}, fmt.Errorf("read ratings: %w", err)
	}
	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return snapshotFile{}, fmt.Errorf("parse ratings: %w", err)
	}
	return f, nil
}

func writeText(w io.Writer, rep *report.Report) {
	n := rep.Narrative
	_, _ = fmt.Fprintln(w, n.Headline)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Stage:      %s (%s confidence)\n", rep.Organization.Stage.Label, rep.Organization.ConfidenceLabel)
	_, _ = fmt.Fprintf(w, "Current:    %.1f\n", rep.Overall.CurrentAvg)
	_, _ = fmt.Fprintf(w, "Target:     %.1f\n", rep.Overall.TargetAvg)
	_, _ = fmt.Fprintf(w, "Gap:        %s\n", scoring.FormatGap(rep.Overall.GapAvg))
	_, _ = fmt.Fprintf(w, "Answered:   %d/%d\n", rep.Overall.AnsweredCount, rep.Overall.TotalCount)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, n.ExecutiveSummary)

	if len(n.Priorities) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Priorities:")
		for i, p := range n.Priorities {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, p.Title)
		}
	}
	if len(n.QuickWins) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Quick wins:")
		for _, q := range n.QuickWins {
			_, _ = fmt.Fprintf(w, "  - %s\n", q.Action)
		}
	}
}
