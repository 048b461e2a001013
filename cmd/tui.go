package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/services"
	"github.com/desertthunder/mympctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// eventPump keeps one websocket listener running for the partition the client is using and
// restarts it after a partition switch.
type eventPump struct {
	logger *log.Logger
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (e *eventPump) start(ctx context.Context, l *services.EventListener, p *tea.Program) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		err := l.Run(ctx, func(ev services.Event) { p.Send(ui.EventMsg(ev)) })
		if err != nil && !errors.Is(err, context.Canceled) {
			e.logger.Error("event listener stopped", "err", err)
		}
	}()
}

func (e *eventPump) stop() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := r.newFileLogger()
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	state, nav, db, err := r.openViewState(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := r.catalog()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener := services.NewEventListener(r.client, r.logger)
	pump := &eventPump{logger: r.logger}
	var p *tea.Program

	model := ui.NewModel(ctx, ui.Deps{
		State:      state,
		Home:       r.home,
		Mover:      services.NewHomeMover(r.client),
		Partitions: r.partitions,
		Ligatures:  catalog,
		Palette:    ui.DefaultPalette(r.config.UI.HighlightColor),
		Logger:     r.logger,
		OnSwitch: func(partition string) {
			r.logger.Info("following partition", "partition", partition)
			pump.start(ctx, listener, p)
		},
	})

	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	r.client.Deliver = func(f func()) { p.Send(ui.CallbackMsg(f)) }
	pump.start(ctx, listener, p)

	_, runErr := p.Run()
	cancel()
	pump.stop()

	if err := nav.Save(context.Background(), state.Snapshot()); err != nil {
		r.logger.Error("failed to save view state", "err", err)
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}
