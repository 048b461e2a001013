package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mympctl/internal/models"
)

var (
	_ list.Item = partitionItem{}
)

// partitionItem wraps [models.Partition] to implement [list.Item].
type partitionItem struct {
	partition models.Partition
	current   bool
}

func (i partitionItem) FilterValue() string { return i.partition.Name }
func (i partitionItem) Title() string       { return i.partition.Name }
func (i partitionItem) Description() string {
	if i.current {
		return "current partition"
	}
	if i.partition.Name == models.DefaultPartition {
		return "default partition"
	}
	return ""
}

func partitionItems(partitions []models.Partition, current string) []list.Item {
	items := make([]list.Item, len(partitions))
	for i, p := range partitions {
		items[i] = partitionItem{partition: p, current: p.Name == current}
	}
	return items
}
