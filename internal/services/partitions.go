package services

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
)

// myMPD methods for partitions and outputs.
const (
	MethodPartitionList       = "MYMPD_API_PARTITION_LIST"
	MethodPartitionNew        = "MYMPD_API_PARTITION_NEW"
	MethodPartitionSwitch     = "MYMPD_API_PARTITION_SWITCH"
	MethodPartitionRm         = "MYMPD_API_PARTITION_RM"
	MethodPlayerOutputList    = "MYMPD_API_PLAYER_OUTPUT_LIST"
	MethodPartitionOutputMove = "MYMPD_API_PARTITION_OUTPUT_MOVE"
)

// PartitionClient is the part of [Client] partition management needs: calls plus the
// partition requests are currently addressed to.
type PartitionClient interface {
	Caller
	Partition() string
	SetPartition(name string)
}

type partitionListResult struct {
	Data []models.Partition `json:"data"`
}

type outputListResult struct {
	NumOutputs int             `json:"numOutputs"`
	Data       []models.Output `json:"data"`
}

// PartitionService lists, creates, switches and removes partitions and moves outputs
// between them.
type PartitionService struct {
	client PartitionClient
	logger *log.Logger
}

// NewPartitionService creates a [PartitionService].
func NewPartitionService(client PartitionClient, logger *log.Logger) *PartitionService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PartitionService{client: client, logger: logger}
}

// Current returns the partition this client works in.
func (s *PartitionService) Current() string {
	return s.client.Partition()
}

// List returns every partition.
func (s *PartitionService) List(ctx context.Context) ([]models.Partition, error) {
	var res partitionListResult
	if err := s.client.Call(ctx, MethodPartitionList, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	return res.Data, nil
}

// Create adds a partition.
func (s *PartitionService) Create(ctx context.Context, name string) error {
	if err := models.ValidatePartitionName(name); err != nil {
		return err
	}
	if err := s.client.Call(ctx, MethodPartitionNew, map[string]string{"name": name}, nil); err != nil {
		return fmt.Errorf("failed to create partition %q: %w", name, err)
	}
	s.logger.Info("created partition", "name", name)
	return nil
}

// Switch moves this client to partition name. Later requests are addressed to it.
func (s *PartitionService) Switch(ctx context.Context, name string) error {
	if err := models.ValidatePartitionName(name); err != nil {
		return err
	}
	if err := s.client.Call(ctx, MethodPartitionSwitch, map[string]string{"name": name}, nil); err != nil {
		return fmt.Errorf("failed to switch to partition %q: %w", name, err)
	}
	s.client.SetPartition(name)
	s.logger.Info("switched partition", "name", name)
	return nil
}

// Remove deletes partition name. The default and the current partition are refused before
// any request is made.
func (s *PartitionService) Remove(ctx context.Context, name string) error {
	if err := models.CanRemovePartition(name, s.client.Partition()); err != nil {
		return err
	}
	if err := s.client.Call(ctx, MethodPartitionRm, map[string]string{"name": name}, nil); err != nil {
		return fmt.Errorf("failed to remove partition %q: %w", name, err)
	}
	s.logger.Info("removed partition", "name", name)
	return nil
}

// Outputs lists the outputs of partition.
func (s *PartitionService) Outputs(ctx context.Context, partition string) ([]models.Output, error) {
	var res outputListResult
	params := map[string]string{"partition": partition}
	if err := s.client.Call(ctx, MethodPlayerOutputList, params, &res); err != nil {
		return nil, fmt.Errorf("failed to list outputs of %q: %w", partition, err)
	}
	return res.Data, nil
}

// Assignable lists the outputs that could be moved into the current partition. Both output
// lists are fetched on every call so the answer never comes from a stale cache.
func (s *PartitionService) Assignable(ctx context.Context) ([]models.Output, error) {
	all, err := s.Outputs(ctx, models.DefaultPartition)
	if err != nil {
		return nil, err
	}
	current, err := s.Outputs(ctx, s.client.Partition())
	if err != nil {
		return nil, err
	}
	return models.AssignableOutputs(all, current), nil
}

// MoveOutputs moves the named outputs into the current partition.
func (s *PartitionService) MoveOutputs(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: no outputs selected", shared.ErrMissingArgument)
	}
	if err := s.client.Call(ctx, MethodPartitionOutputMove, map[string][]string{"outputs": names}, nil); err != nil {
		return fmt.Errorf("failed to move outputs: %w", err)
	}
	s.logger.Info("moved outputs", "outputs", names, "partition", s.client.Partition())
	return nil
}
