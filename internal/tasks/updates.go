package tasks

import (
	"fmt"

	"github.com/desertthunder/mympctl/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchIcons Phase = iota
	ValidateIcons
	RemoveIcons
	SaveIcons
	CompareIcons
)

func (p Phase) String() string {
	switch p {
	case FetchIcons:
		return "fetch_icons"
	case ValidateIcons:
		return "validate_icons"
	case RemoveIcons:
		return "remove_icons"
	case SaveIcons:
		return "save_icons"
	case CompareIcons:
		return "compare_icons"
	default:
		return ""
	}
}

func fetchIconsUpdate(partition string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchIcons,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching home icons from partition %s...", partition),
	}
}

func foundIconsUpdate(icons []models.HomeIcon) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchIcons,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d home icons", len(icons)),
		Data:    icons,
	}
}

func invalidIconUpdate(step, total int, icon models.HomeIcon, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ValidateIcons,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, icon.Name, err),
	}
}

func removeIconUpdate(step, total int, icon models.HomeIcon) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RemoveIcons,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Removing: %s", step, total, icon.Name),
	}
}

func saveIconUpdate(step, total int, icon models.HomeIcon) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveIcons,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Saving: %s", step, total, icon.Name),
	}
}

func saveFailedUpdate(step, total int, icon models.HomeIcon, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SaveIcons,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, icon.Name, err),
	}
}

func compareUpdate(local, remote int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CompareIcons,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Comparing %d saved icons with %d on the server...", local, remote),
	}
}
