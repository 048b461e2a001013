package services

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
)

func outputs(list ...models.Output) map[string]any {
	return map[string]any{"numOutputs": len(list), "data": list}
}

func TestPartitionService(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodPartitionList, map[string]any{"data": []models.Partition{{Name: "default"}, {Name: "kitchen"}}})

		parts, err := NewPartitionService(newTestClient(srv.URL), nil).List(ctx)
		if err != nil || len(parts) != 2 || parts[1].Name != "kitchen" {
			t.Errorf("unexpected partitions %+v (%v)", parts, err)
		}
	})

	t.Run("Create Validates Name", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodPartitionNew, ok())
		svc := NewPartitionService(newTestClient(srv.URL), nil)

		if err := svc.Create(ctx, "a/b"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if err := svc.Create(ctx, "kitchen"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		calls := fake.recorded()
		if len(calls) != 1 || calls[0].Params["name"] != "kitchen" {
			t.Errorf("unexpected calls %+v", calls)
		}
	})

	t.Run("Switch Readdresses Client", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodPartitionSwitch, ok())
		fake.reply(MethodPartitionList, map[string]any{"data": []models.Partition{}})

		client := newTestClient(srv.URL)
		svc := NewPartitionService(client, nil)
		if err := svc.Switch(ctx, "kitchen"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.Current() != "kitchen" {
			t.Errorf("expected current kitchen, got %q", svc.Current())
		}

		svc.List(ctx)
		calls := fake.recorded()
		if calls[0].Partition != "default" || calls[1].Partition != "kitchen" {
			t.Errorf("expected later calls on kitchen, got %+v", calls)
		}
	})

	t.Run("Switch Failure Keeps Partition", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.on(MethodPartitionSwitch, func(map[string]any) (any, *BackendError) {
			return nil, &BackendError{Code: -32000, Message: "Unknown partition"}
		})

		svc := NewPartitionService(newTestClient(srv.URL), nil)
		if err := svc.Switch(ctx, "nowhere"); !errors.Is(err, shared.ErrBackend) {
			t.Errorf("expected ErrBackend, got %v", err)
		}
		if svc.Current() != "default" {
			t.Errorf("expected partition unchanged, got %q", svc.Current())
		}
	})

	t.Run("Remove Guards", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodPartitionRm, ok())

		client := newTestClient(srv.URL)
		client.SetPartition("kitchen")
		svc := NewPartitionService(client, nil)

		for _, name := range []string{"default", "kitchen"} {
			if err := svc.Remove(ctx, name); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("Remove(%q) expected ErrValidation, got %v", name, err)
			}
		}
		if len(fake.recorded()) != 0 {
			t.Errorf("guarded removals must not call the server, got %v", fake.methods())
		}

		if err := svc.Remove(ctx, "bedroom"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Assignable Refetches Every Time", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		speakers := models.Output{ID: 0, Name: "Speakers", Plugin: "alsa", State: 1}
		stream := models.Output{ID: 1, Name: "Stream", Plugin: "httpd"}

		serve := func(defaultOutputs ...models.Output) {
			fake.on(MethodPlayerOutputList, func(p map[string]any) (any, *BackendError) {
				if p["partition"] == "default" {
					return outputs(defaultOutputs...), nil
				}
				return outputs(models.Output{Name: "Speakers", Plugin: models.DummyPlugin}), nil
			})
		}
		serve(speakers, stream)

		client := newTestClient(srv.URL)
		client.SetPartition("kitchen")
		svc := NewPartitionService(client, nil)

		got, err := svc.Assignable(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected dummy outputs to be ignored, got %+v", got)
		}

		serve(stream)
		got, _ = svc.Assignable(ctx)
		if len(got) != 1 || got[0].Name != "Stream" {
			t.Errorf("expected refreshed outputs, got %+v", got)
		}
		if n := len(fake.recorded()); n != 4 {
			t.Errorf("expected both lists fetched on every call, got %d calls", n)
		}
	})

	t.Run("MoveOutputs", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodPartitionOutputMove, ok())
		svc := NewPartitionService(newTestClient(srv.URL), nil)

		if err := svc.MoveOutputs(ctx, nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := svc.MoveOutputs(ctx, []string{"Speakers", "Stream"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		raw, _ := fake.recorded()[0].Params["outputs"].([]any)
		var names []string
		for _, r := range raw {
			names = append(names, r.(string))
		}
		if !slices.Equal(names, []string{"Speakers", "Stream"}) {
			t.Errorf("unexpected outputs %v", names)
		}
	})
}
