// package tasks implements backup, restore and comparison of a myMPD home screen.
//
// The core abstraction is HomeEngine, which orchestrates exports, imports, and diffs.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	"golang.org/x/time/rate"
)

// HomeExportVersion is written into every export so later formats can be told apart.
const HomeExportVersion = 1

// HomeExport is a saved copy of one partition's home screen.
type HomeExport struct {
	Version    int               `json:"version" yaml:"version"`
	Partition  string            `json:"partition" yaml:"partition"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Icons      []models.HomeIcon `json:"icons" yaml:"icons"`
}

// IconResult is the outcome of saving a single icon during an import.
type IconResult struct {
	Position int
	Icon     models.HomeIcon
	Error    error
}

// ImportOpts configures [HomeEngine.Import].
type ImportOpts struct {
	Replace        bool // Remove every existing icon first
	SkipDuplicates bool // Skip icons already on the home screen
	DryRun         bool // Validate only, send nothing
}

// ImportResult summarizes an import.
type ImportResult struct {
	Removed int
	Added   int
	Skipped int
	Failed  []IconResult
}

// HomeDiff describes how a saved export differs from the server's home screen.
type HomeDiff struct {
	Matched []models.HomeIcon // On both sides at the same position
	Moved   []models.HomeIcon // On both sides at different positions
	Missing []models.HomeIcon // In the export only
	Extra   []models.HomeIcon // On the server only
}

// InSync reports whether the export and the server agree.
func (d HomeDiff) InSync() bool {
	return len(d.Moved) == 0 && len(d.Missing) == 0 && len(d.Extra) == 0
}

// HomeClient is the part of services.HomeService the engine uses.
type HomeClient interface {
	List(ctx context.Context) ([]models.HomeIcon, error)
	Add(ctx context.Context, icon models.HomeIcon) error
	Delete(ctx context.Context, pos int) ([]models.HomeIcon, error)
}

// HomeEngine backs up and restores home screens.
type HomeEngine struct {
	home      HomeClient
	partition string
	limiter   *rate.Limiter
	logger    *log.Logger
}

// NewHomeEngine creates a [HomeEngine]. Writes are throttled to rps requests per second;
// rps <= 0 leaves them unthrottled.
func NewHomeEngine(home HomeClient, partition string, rps float64, logger *log.Logger) *HomeEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HomeEngine{
		home:      home,
		partition: partition,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *HomeEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Export fetches the current home screen.
func (e *HomeEngine) Export(ctx context.Context, progress chan<- ProgressUpdate) (*HomeExport, error) {
	if e.home == nil {
		return nil, fmt.Errorf("%w: home service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchIconsUpdate(e.partition))
	icons, err := e.home.List(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, foundIconsUpdate(icons))

	return &HomeExport{
		Version:    HomeExportVersion,
		Partition:  e.partition,
		ExportedAt: time.Now().UTC(),
		Icons:      icons,
	}, nil
}

// Import saves the icons of export to the server in order. Invalid icons are reported and
// skipped without aborting the rest; a failed removal aborts because the resulting order
// would be unpredictable.
func (e *HomeEngine) Import(ctx context.Context, progress chan<- ProgressUpdate, export *HomeExport, opts ImportOpts) (*ImportResult, error) {
	if e.home == nil {
		return nil, fmt.Errorf("%w: home service not initialized", shared.ErrServiceUnavailable)
	}
	if export == nil {
		return nil, fmt.Errorf("%w: nothing to import", shared.ErrMissingArgument)
	}
	if export.Version > HomeExportVersion {
		return nil, fmt.Errorf("%w: export version %d is newer than %d", shared.ErrValidation, export.Version, HomeExportVersion)
	}

	result := &ImportResult{}
	total := len(export.Icons)

	valid := make([]IconResult, 0, total)
	for i, icon := range export.Icons {
		icon.Normalize()
		if err := icon.Validate(); err != nil {
			result.Failed = append(result.Failed, IconResult{Position: i, Icon: icon, Error: err})
			e.sendProgress(progress, invalidIconUpdate(i+1, total, icon, err))
			continue
		}
		valid = append(valid, IconResult{Position: i, Icon: icon})
	}
	if opts.DryRun {
		result.Skipped = len(valid)
		return result, nil
	}

	e.sendProgress(progress, fetchIconsUpdate(e.partition))
	existing, err := e.home.List(ctx)
	if err != nil {
		return result, err
	}

	if opts.Replace {
		for i := len(existing) - 1; i >= 0; i-- {
			if err := e.limiter.Wait(ctx); err != nil {
				return result, err
			}
			e.sendProgress(progress, removeIconUpdate(len(existing)-i, len(existing), existing[i]))
			if _, err := e.home.Delete(ctx, i); err != nil {
				return result, fmt.Errorf("failed to clear home screen: %w", err)
			}
			result.Removed++
		}
		existing = nil
	}

	for step, item := range valid {
		if opts.SkipDuplicates && slices.ContainsFunc(existing, func(h models.HomeIcon) bool { return sameIcon(h, item.Icon) }) {
			result.Skipped++
			continue
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return result, err
		}

		e.sendProgress(progress, saveIconUpdate(step+1, len(valid), item.Icon))
		if err := e.home.Add(ctx, item.Icon); err != nil {
			e.logger.Warn("icon not saved", "name", item.Icon.Name, "error", err)
			item.Error = err
			result.Failed = append(result.Failed, item)
			e.sendProgress(progress, saveFailedUpdate(step+1, len(valid), item.Icon, err))
			continue
		}
		result.Added++
	}

	e.logger.Info("home screen imported", "partition", e.partition, "added", result.Added, "failed", len(result.Failed))
	return result, nil
}

// Diff compares export with the server's home screen. Icons are matched by name, command
// and options; colors and ligatures are ignored.
func (e *HomeEngine) Diff(ctx context.Context, progress chan<- ProgressUpdate, export *HomeExport) (*HomeDiff, error) {
	if e.home == nil {
		return nil, fmt.Errorf("%w: home service not initialized", shared.ErrServiceUnavailable)
	}
	if export == nil {
		return nil, fmt.Errorf("%w: nothing to compare", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, fetchIconsUpdate(e.partition))
	remote, err := e.home.List(ctx)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, compareUpdate(len(export.Icons), len(remote)))

	remoteAt := make(map[string][]int, len(remote))
	for i, icon := range remote {
		k := iconKey(icon)
		remoteAt[k] = append(remoteAt[k], i)
	}

	diff := &HomeDiff{}
	seen := make(map[int]bool, len(remote))
	for i, icon := range export.Icons {
		positions := remoteAt[iconKey(icon)]
		if len(positions) == 0 {
			diff.Missing = append(diff.Missing, icon)
			continue
		}
		pos := positions[0]
		remoteAt[iconKey(icon)] = positions[1:]
		seen[pos] = true
		if pos == i {
			diff.Matched = append(diff.Matched, icon)
		} else {
			diff.Moved = append(diff.Moved, icon)
		}
	}
	for i, icon := range remote {
		if !seen[i] {
			diff.Extra = append(diff.Extra, icon)
		}
	}
	return diff, nil
}

func iconKey(h models.HomeIcon) string {
	return strings.Join(append([]string{h.Name, string(h.Cmd)}, h.Options...), "\x00")
}

func sameIcon(a, b models.HomeIcon) bool {
	return iconKey(a) == iconKey(b)
}
