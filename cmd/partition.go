package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mympctl/internal/formatter"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// PartitionList prints every partition, marking the one this client uses.
func (r *Runner) PartitionList(ctx context.Context, cmd *cli.Command) error {
	parts, err := r.partitions.List(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(parts, cmd.Bool("pretty"))
	}
	return r.writeBytes(formatter.PartitionsToText(parts, r.partitions.Current()))
}

// PartitionNew creates a partition.
func (r *Runner) PartitionNew(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if err := r.partitions.Create(ctx, name); err != nil {
		return err
	}
	r.writePlain("✓ Created partition %s\n", name)
	return nil
}

// PartitionSwitch checks that the partition accepts this client. The choice only lasts for
// the command; pass --partition or set server.partition to keep it.
func (r *Runner) PartitionSwitch(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if err := r.partitions.Switch(ctx, name); err != nil {
		return err
	}
	r.writePlain("✓ Switched to partition %s\n", name)
	r.writePlain("Use --partition %s or set server.partition in %s to stay there.\n", name, r.configPathOrDefault())
	return nil
}

// PartitionRemove deletes a partition.
func (r *Runner) PartitionRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if err := r.partitions.Remove(ctx, name); err != nil {
		return err
	}
	r.writePlain("✓ Removed partition %s\n", name)
	return nil
}

// PartitionOutputs lists outputs of a partition, or with --assignable those that could be
// moved into the current partition.
func (r *Runner) PartitionOutputs(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("assignable") {
		list, err := r.partitions.Assignable(ctx)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(list, true)
		}
		r.writePlain("Assignable to %s\n", r.partitions.Current())
		return r.writeBytes(formatter.OutputsToText(list))
	}

	name := cmd.StringArg("name")
	if name == "" {
		name = r.partitions.Current()
	}
	list, err := r.partitions.Outputs(ctx, name)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(list, true)
	}
	r.writePlain("Outputs of %s\n", name)
	return r.writeBytes(formatter.OutputsToText(list))
}

// PartitionMoveOutputs moves the named outputs into the current partition.
func (r *Runner) PartitionMoveOutputs(ctx context.Context, cmd *cli.Command) error {
	names := cmd.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one output name", shared.ErrMissingArgument)
	}
	if err := r.partitions.MoveOutputs(ctx, names); err != nil {
		return err
	}
	r.writePlain("✓ Moved %s to %s\n", strings.Join(names, ", "), r.partitions.Current())
	return nil
}

func (r *Runner) configPathOrDefault() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}
