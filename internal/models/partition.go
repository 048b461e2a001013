package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/mympctl/internal/shared"
)

// DefaultPartition always exists and cannot be removed.
const DefaultPartition = "default"

// Partition is an independent playback zone.
type Partition struct {
	Name string `json:"name"`
}

// ValidatePartitionName applies the playlist-name rules: not blank, no slashes or line breaks.
func ValidatePartitionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: partition name must not be blank", shared.ErrValidation)
	}
	if strings.ContainsAny(name, "/\r\n") {
		return fmt.Errorf("%w: partition name %q contains invalid characters", shared.ErrValidation, name)
	}
	return nil
}

// CanRemovePartition rejects the default partition and the one in use.
func CanRemovePartition(name, current string) error {
	if name == DefaultPartition {
		return fmt.Errorf("%w: the %s partition cannot be removed", shared.ErrValidation, DefaultPartition)
	}
	if name == current {
		return fmt.Errorf("%w: cannot remove the current partition %q", shared.ErrValidation, name)
	}
	return nil
}

// Output is an audio sink.
type Output struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	State  int    `json:"state"`
	Plugin string `json:"plugin"`
}

// Enabled reports whether MPD is playing through the output.
func (o Output) Enabled() bool {
	return o.State == 1
}

// DummyPlugin marks placeholder outputs MPD creates in partitions.
const DummyPlugin = "dummy"

// AssignableOutputs returns the outputs of all that the current partition does not already
// have. Dummy outputs of the current partition are not counted as having an output.
func AssignableOutputs(all, current []Output) []Output {
	have := make([]string, 0, len(current))
	for _, o := range current {
		if o.Plugin != DummyPlugin {
			have = append(have, o.Name)
		}
	}

	var out []Output
	for _, o := range all {
		if !slices.Contains(have, o.Name) {
			out = append(out, o)
		}
	}
	return out
}
