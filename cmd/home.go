package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mympctl/internal/formatter"
	"github.com/desertthunder/mympctl/internal/ligatures"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// positionArg reads a non-negative integer argument.
func positionArg(cmd *cli.Command, name string) (int, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", shared.ErrInvalidArgument, name, v)
	}
	return n, nil
}

// applyIconFlags copies every icon flag the user set onto icon.
func applyIconFlags(cmd *cli.Command, icon *models.HomeIcon) {
	if cmd.IsSet("name") {
		icon.Name = cmd.String("name")
	}
	if cmd.IsSet("ligature") {
		icon.Ligature = cmd.String("ligature")
	}
	if cmd.IsSet("cmd") {
		icon.Cmd = models.IconCommand(cmd.String("cmd"))
	}
	if cmd.IsSet("option") {
		icon.Options = cmd.StringSlice("option")
	}
	if cmd.IsSet("bgcolor") {
		icon.BgColor = cmd.String("bgcolor")
	}
	if cmd.IsSet("color") {
		icon.Color = cmd.String("color")
	}
	if cmd.IsSet("image") {
		icon.Image = cmd.String("image")
	}
}

// HomeList prints the home screen of the current partition.
func (r *Runner) HomeList(ctx context.Context, cmd *cli.Command) error {
	icons, err := r.home.List(ctx)
	if err != nil {
		return err
	}

	if out := cmd.String("output"); out != "" {
		path, err := formatter.WriteHome(out, r.client.Partition(), icons)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %d icons to %s\n", len(icons), path)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(icons, cmd.Bool("pretty"))
	}

	data, err := formatter.RenderHome(cmd.String("format"), r.client.Partition(), icons)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// HomeGet prints one icon.
func (r *Runner) HomeGet(ctx context.Context, cmd *cli.Command) error {
	pos, err := positionArg(cmd, "pos")
	if err != nil {
		return err
	}
	icon, err := r.home.Get(ctx, pos)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(icon, true)
	}

	r.writePlainHeader(icon.Name)
	r.writePlain("Type:     %s\n", icon.Type().FriendlyName())
	r.writePlain("Command:  %s\n", icon.Cmd)
	r.writePlain("Label:    %s\n", icon.Label())
	r.writePlain("Colors:   %s on %s\n", icon.Color, icon.BgColor)
	for _, choice := range models.Commands(icon.Type()) {
		if choice.Command != icon.Cmd {
			continue
		}
		for j, label := range choice.Options {
			if j < len(icon.Options) {
				r.writePlain("  %-12s %s\n", label+":", icon.Options[j])
			}
		}
	}
	return nil
}

// HomeAdd appends an icon built from flags.
func (r *Runner) HomeAdd(ctx context.Context, cmd *cli.Command) error {
	icon := models.NewHomeIcon("", "", "")
	applyIconFlags(cmd, &icon)
	if icon.Cmd == "" && len(icon.Options) > 0 {
		if choices := models.Commands(icon.Type()); len(choices) > 0 {
			icon.Cmd = choices[0].Command
		}
	}

	if err := r.home.Add(ctx, icon); err != nil {
		return err
	}
	r.writePlain("✓ Added %q\n", icon.Name)
	return nil
}

// HomeEdit changes the flags given on an existing icon, keeping the rest.
func (r *Runner) HomeEdit(ctx context.Context, cmd *cli.Command) error {
	pos, err := positionArg(cmd, "pos")
	if err != nil {
		return err
	}
	icon, err := r.home.Get(ctx, pos)
	if err != nil {
		return err
	}
	applyIconFlags(cmd, &icon)

	if err := r.home.Edit(ctx, pos, icon); err != nil {
		return err
	}
	r.writePlain("✓ Saved %q at %d\n", icon.Name, pos)
	return nil
}

// HomeDuplicate copies an icon to the end of the home screen.
func (r *Runner) HomeDuplicate(ctx context.Context, cmd *cli.Command) error {
	pos, err := positionArg(cmd, "pos")
	if err != nil {
		return err
	}
	if err := r.home.Duplicate(ctx, pos, cmd.String("name")); err != nil {
		return err
	}
	r.writePlain("✓ Duplicated icon %d\n", pos)
	return nil
}

// HomeRemove deletes an icon.
func (r *Runner) HomeRemove(ctx context.Context, cmd *cli.Command) error {
	pos, err := positionArg(cmd, "pos")
	if err != nil {
		return err
	}
	icons, err := r.home.Delete(ctx, pos)
	if err != nil {
		return err
	}
	r.writePlain("✓ Removed icon %d, %d left\n", pos, len(icons))
	return nil
}

// HomeMove moves an icon and prints the order the server reports.
func (r *Runner) HomeMove(ctx context.Context, cmd *cli.Command) error {
	from, err := positionArg(cmd, "from")
	if err != nil {
		return err
	}
	to, err := positionArg(cmd, "to")
	if err != nil {
		return err
	}

	icons, err := r.home.Move(ctx, from, to)
	if errors.Is(err, shared.ErrNoOpMove) {
		r.writePlain("Icon %d is already at %d, nothing to move\n", from, to)
		return nil
	}
	if err != nil {
		return err
	}
	data, err := formatter.HomeToText(icons)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// HomeExec runs an icon. Goto icons move the persisted view state.
func (r *Runner) HomeExec(ctx context.Context, cmd *cli.Command) error {
	pos, err := positionArg(cmd, "pos")
	if err != nil {
		return err
	}
	icon, err := r.home.Get(ctx, pos)
	if err != nil {
		return err
	}

	if icon.Cmd != models.CmdGoto {
		exec, err := r.home.Execute(ctx, icon, nil)
		if err != nil {
			return err
		}
		if exec.Link != "" {
			r.writePlain("%s\n", exec.Link)
			return nil
		}
		r.writePlain("✓ %s: %s\n", icon.Name, exec.Method)
		return nil
	}

	state, nav, db, err := r.openViewState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := r.home.Execute(ctx, icon, state); err != nil {
		return err
	}
	if err := nav.Save(ctx, state.Snapshot()); err != nil {
		return err
	}
	return r.writeBytes(formatter.PointerToText("current", state.Current()))
}

// HomeExport saves the home screen to a YAML or JSON file, or prints it.
func (r *Runner) HomeExport(ctx context.Context, cmd *cli.Command) error {
	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	export, err := r.engine.Export(ctx, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	out := cmd.String("output")
	if out == "" {
		format := cmd.String("format")
		if format == "" {
			format = tasks.FormatYAML
		}
		return tasks.EncodeExport(r.output, export, format)
	}

	if err := tasks.WriteExport(out, export); err != nil {
		return err
	}
	r.writePlain("✓ Exported %d icons from %s to %s\n", len(export.Icons), export.Partition, out)
	return nil
}

// HomeImport restores a saved home screen.
func (r *Runner) HomeImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}
	export, err := tasks.ReadExport(path)
	if err != nil {
		return err
	}

	opts := tasks.ImportOpts{
		Replace:        cmd.Bool("replace"),
		SkipDuplicates: cmd.Bool("skip-duplicates"),
		DryRun:         cmd.Bool("dry-run"),
	}

	r.writePlain("Importing %d icons from %s...\n", len(export.Icons), path)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ValidateIcons:
				r.writePlain("⚠ %s\n", update.Message)
			case tasks.RemoveIcons:
				r.writePlain("🗑 %s\n", update.Message)
			case tasks.SaveIcons:
				r.writePlain("   %s\n", update.Message)
			default:
				r.writePlain("📥 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Import(ctx, progressCh, export, opts)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete")
	if opts.DryRun {
		r.writePlain("Dry run, nothing was sent\n")
	}
	r.writePlain("Removed: %d\n", result.Removed)
	r.writePlain("Added:   %d\n", result.Added)
	r.writePlain("Skipped: %d\n", result.Skipped)
	if len(result.Failed) > 0 {
		r.writePlain("\nFailed %d icons:\n", len(result.Failed))
		for _, f := range result.Failed {
			r.writePlain("  - #%d %s: %v\n", f.Position, f.Icon.Name, f.Error)
		}
	}
	return nil
}

// HomeDiff compares a saved export with the server's home screen.
func (r *Runner) HomeDiff(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}
	export, err := tasks.ReadExport(path)
	if err != nil {
		return err
	}

	diff, err := r.engine.Diff(ctx, nil, export)
	if err != nil {
		return err
	}

	r.writePlainHeader("Comparison Results")
	r.writePlain("Matched: %d icons\n", len(diff.Matched))
	r.writePlain("Moved:   %d icons\n", len(diff.Moved))
	r.writePlain("Missing from server: %d icons\n", len(diff.Missing))
	r.writePlain("Extra on server:     %d icons\n", len(diff.Extra))

	for _, group := range []struct {
		title string
		icons []models.HomeIcon
	}{{"Moved", diff.Moved}, {"Missing from server", diff.Missing}, {"Extra on server", diff.Extra}} {
		if len(group.icons) == 0 {
			continue
		}
		r.writePlain("\n%s:\n", group.title)
		for i, icon := range group.icons {
			r.writePlain("  %d. %s (%s)\n", i+1, icon.Name, icon.Cmd)
		}
	}

	if diff.InSync() {
		r.writePlain("\n✓ In sync\n")
	}
	return nil
}

// HomeLigatures lists or searches the ligature catalog.
func (r *Runner) HomeLigatures(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.catalog()
	if err != nil {
		return err
	}

	query := cmd.StringArg("query")
	category := cmd.String("category")

	if query != "" && category == "" {
		for _, m := range catalog.Search(query) {
			r.writePlain("%-28s %s\n", m.Name, catalog.Title(m.Category))
		}
		return nil
	}

	ligs := catalog.Filter(query, category)
	if len(ligs) == 0 {
		return fmt.Errorf("%w: no ligature matches %q", shared.ErrNotFound, query)
	}
	for _, group := range catalog.Grouped(ligs) {
		names := make([]string, len(group))
		for i, l := range group {
			names[i] = l.Name
		}
		r.writePlain("%s\n  %s\n", catalog.Title(group[0].Category), strings.Join(names, " "))
	}
	return nil
}

// ligatureCategories is used for flag help.
func ligatureCategories() string {
	c, err := ligatures.Default()
	if err != nil {
		return ""
	}
	return strings.Join(c.Categories(), ", ")
}
