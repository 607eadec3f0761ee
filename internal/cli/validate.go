package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Compass/internal/definition"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a definitions directory",
		Long: `Load every assessment, the recommendation rules and the narrative
templates from the definitions directory and report all problems at once.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	dir, _, err := settings(cmd)
	if err != nil {
		return err
	}
	c, err := definition.Load(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rules := 0
	for _, rs := range c.Rules.Rules {
		rules += len(rs)
	}
	_, _ = fmt.Fprintf(out, "%s: ok\n", dir)
	for _, a := range c.Assessments() {
		_, _ = fmt.Fprintf(out, "  %s: %d dimensions, %d topics\n", a.ID, len(a.Dimensions), a.TopicCount())
	}
	_, _ = fmt.Fprintf(out, "  rules: %d\n", rules)
	return nil
}
