package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmeta/internal/cli/output"
	"github.com/leapstack-labs/leapmeta/pkg/adapter"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create missing tables in the target database",
		Long: `Connect to the configured target and create every concrete table that
does not exist yet. Existing tables are left untouched; apply never alters
or drops anything.

The target's profile decides both the connection adapter and the DDL dialect.`,
		Example: `  # Create missing tables in the configured target
  leapmeta apply

  # Show the DDL apply would run, without connecting
  leapmeta apply --dry-run

  # Apply to the ci environment's target
  leapmeta apply --env ci`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the DDL instead of executing it")
	return cmd
}

func runApply(cmd *cobra.Command, dryRun bool) error {
	cc := NewCommandContext(cmd)
	target := cc.Cfg.Target
	if target == nil {
		return fmt.Errorf("no target configured\nHint: add a target: section to %s", configName(cc))
	}

	reg, err := cc.Registry()
	if err != nil {
		return err
	}

	if dryRun {
		p, err := dialect.Lookup(target.Profile)
		if err != nil {
			return err
		}
		ddl, err := reg.RenderAll(p)
		if err != nil {
			return err
		}
		cc.Renderer.Println(ddl)
		return nil
	}

	ctx := cmd.Context()
	a, err := adapter.NewAdapter(target.AdapterConfig(), cc.Logger)
	if err != nil {
		return err
	}
	if err := a.Connect(ctx, target.AdapterConfig()); err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	res, err := adapter.Apply(ctx, a, reg, cc.Logger)
	if res != nil {
		reportApply(cc.Renderer, res)
	}
	return err
}

func reportApply(r *output.Renderer, res *adapter.ApplyResult) {
	if r.EffectiveMode() == output.ModeYAML {
		_ = r.YAML(map[string][]string{"created": nonNil(res.Created), "skipped": nonNil(res.Skipped)})
		return
	}
	if len(res.Created) > 0 {
		r.Success("created %s", strings.Join(res.Created, ", "))
	}
	if len(res.Skipped) > 0 {
		r.Warn("skipped existing %s", strings.Join(res.Skipped, ", "))
	}
	if len(res.Created)+len(res.Skipped) == 0 {
		r.Warn("no concrete types declared")
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func configName(cc *CommandContext) string {
	if cc.Cfg.File != "" {
		return cc.Cfg.File
	}
	return "leapmeta.yaml"
}
