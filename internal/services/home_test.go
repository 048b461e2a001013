package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

func homeList(names ...string) map[string]any {
	data := make([]models.HomeIcon, 0, len(names))
	for _, n := range names {
		data = append(data, models.NewHomeIcon(n, "star", models.CmdReplaceQueue, "plist", n))
	}
	return map[string]any{"returnedEntities": len(data), "data": data}
}

func iconNames(icons []models.HomeIcon) []string {
	names := make([]string, 0, len(icons))
	for _, i := range icons {
		names = append(names, i.Name)
	}
	return names
}

func TestHomeService(t *testing.T) {
	ctx := context.Background()

	t.Run("List", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodHomeIconList, homeList("A", "B"))

		icons, err := NewHomeService(newTestClient(srv.URL), nil).List(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(iconNames(icons), []string{"A", "B"}) {
			t.Errorf("unexpected icons %v", iconNames(icons))
		}
		if icons[0].BgColor != models.DefaultIconBgColor {
			t.Errorf("expected decoded colors, got %+v", icons[0])
		}
	})

	t.Run("Get", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.on(MethodHomeIconGet, func(p map[string]any) (any, *BackendError) {
			if p["pos"] != 1.0 {
				t.Errorf("expected pos 1, got %v", p["pos"])
			}
			return map[string]any{"data": models.NewHomeIcon("B", "star", models.CmdAppendQueue, "dir", "music")}, nil
		})

		icon, err := NewHomeService(newTestClient(srv.URL), nil).Get(ctx, 1)
		if err != nil || icon.Name != "B" || icon.Type() != models.IconDirectory {
			t.Errorf("unexpected icon %+v (%v)", icon, err)
		}

		if _, err := NewHomeService(newTestClient(srv.URL), nil).Get(ctx, -1); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Add Sends Normalized Icon", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		var sent map[string]any
		fake.on(MethodHomeIconSave, func(p map[string]any) (any, *BackendError) {
			sent = p
			return ok(), nil
		})

		icon := models.NewHomeIcon(" Radio ", "radio", models.CmdAppendQueue, "stream", "http://radio")
		icon.Image = "radio.png"
		if err := NewHomeService(newTestClient(srv.URL), nil).Add(ctx, icon); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if sent["replace"] != false || sent["oldpos"] != 0.0 {
			t.Errorf("expected new icon, got replace=%v oldpos=%v", sent["replace"], sent["oldpos"])
		}
		if sent["name"] != "Radio" || sent["ligature"] != "" || sent["image"] != "radio.png" {
			t.Errorf("unexpected icon fields %v", sent)
		}
		if sent["cmd"] != "appendQueue" || sent["bgcolor"] != "#28a745" {
			t.Errorf("unexpected command or color %v", sent)
		}
	})

	t.Run("Edit Replaces Position", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodHomeIconSave, ok())

		icon := models.NewHomeIcon("Jazz", "star", models.CmdReplaceQueue, "plist", "Jazz")
		if err := NewHomeService(newTestClient(srv.URL), nil).Edit(ctx, 3, icon); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		p := fake.recorded()[0].Params
		if p["replace"] != true || p["oldpos"] != 3.0 {
			t.Errorf("expected replace at 3, got %v", p)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodHomeIconGet, map[string]any{"data": models.NewHomeIcon("Jazz", "star", models.CmdReplaceQueue, "plist", "Jazz")})
		fake.reply(MethodHomeIconSave, ok())

		if err := NewHomeService(newTestClient(srv.URL), nil).Duplicate(ctx, 2, "Jazz copy"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		calls := fake.recorded()
		if len(calls) != 2 {
			t.Fatalf("expected get and save, got %v", fake.methods())
		}
		if calls[1].Params["replace"] != false || calls[1].Params["oldpos"] != 2.0 || calls[1].Params["name"] != "Jazz copy" {
			t.Errorf("unexpected duplicate params %v", calls[1].Params)
		}
	})

	t.Run("Validation Happens Before Request", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		svc := NewHomeService(newTestClient(srv.URL), nil)

		bad := models.NewHomeIcon("", "star", models.CmdReplaceQueue, "plist", "x")
		if err := svc.Add(ctx, bad); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		bad = models.NewHomeIcon("ok", "star", models.CmdReplaceQueue, "plist", "x")
		bad.Color = "white"
		if err := svc.Edit(ctx, 0, bad); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if len(fake.recorded()) != 0 {
			t.Errorf("expected no requests, got %v", fake.methods())
		}
	})

	t.Run("Delete Returns Fresh List", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodHomeIconRm, ok())
		fake.reply(MethodHomeIconList, homeList("A", "C"))

		icons, err := NewHomeService(newTestClient(srv.URL), nil).Delete(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(iconNames(icons), []string{"A", "C"}) {
			t.Errorf("unexpected icons %v", iconNames(icons))
		}
		if !slices.Equal(fake.methods(), []string{MethodHomeIconRm, MethodHomeIconList}) {
			t.Errorf("unexpected calls %v", fake.methods())
		}
	})

	t.Run("Move", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodHomeIconMove, ok())
		fake.reply(MethodHomeIconList, homeList("B", "D", "A", "C", "E"))
		svc := NewHomeService(newTestClient(srv.URL), nil)

		icons, err := svc.Move(ctx, 3, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p := fake.recorded()[0].Params; p["from"] != 3.0 || p["to"] != 1.0 {
			t.Errorf("expected {from:3, to:1}, got %v", p)
		}
		if !slices.Equal(iconNames(icons), []string{"B", "D", "A", "C", "E"}) {
			t.Errorf("expected server ordering, got %v", iconNames(icons))
		}

		if _, err := svc.Move(ctx, 2, 2); !errors.Is(err, shared.ErrNoOpMove) {
			t.Errorf("expected ErrNoOpMove, got %v", err)
		}
		if len(fake.recorded()) != 2 {
			t.Errorf("no-op move must not call the server, got %v", fake.methods())
		}
	})
}

func TestHomeMover(t *testing.T) {
	t.Run("Moves Then Lists", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodHomeIconMove, ok())
		fake.reply(MethodHomeIconList, homeList("B", "D", "A", "C", "E"))

		mover := NewHomeMover(newTestClient(srv.URL))
		done := make(chan []models.HomeIcon, 1)
		mover.Move(3, 1, func(icons []models.HomeIcon, err error) {
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			done <- icons
		})

		select {
		case icons := <-done:
			if !slices.Equal(iconNames(icons), []string{"B", "D", "A", "C", "E"}) {
				t.Errorf("unexpected icons %v", iconNames(icons))
			}
		case <-time.After(2 * time.Second):
			t.Fatal("move did not complete")
		}
	})

	t.Run("Failure Skips Listing", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.on(MethodHomeIconMove, func(map[string]any) (any, *BackendError) {
			return nil, &BackendError{Code: -32000, Message: "Can not move home icon"}
		})

		done := make(chan error, 1)
		NewHomeMover(newTestClient(srv.URL)).Move(0, 4, func(_ []models.HomeIcon, err error) { done <- err })

		select {
		case err := <-done:
			if !errors.Is(err, shared.ErrBackend) {
				t.Errorf("expected ErrBackend, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("move did not complete")
		}
		if !slices.Equal(fake.methods(), []string{MethodHomeIconMove}) {
			t.Errorf("expected only the move request, got %v", fake.methods())
		}
	})
}

type fakeNavigator struct {
	opts []string
	err  error
}

func (n *fakeNavigator) Goto(opts []string) (viewstate.BrowsingContext, error) {
	n.opts = opts
	return viewstate.BrowsingContext{}, n.err
}

func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("Queue Commands", func(t *testing.T) {
		tc := []struct {
			icon   models.HomeIcon
			method string
			key    string
			value  string
			play   bool
		}{
			{models.NewHomeIcon("p", "", models.CmdReplaceQueue, "plist", "Jazz"), "MYMPD_API_QUEUE_REPLACE_PLAYLIST", "plist", "Jazz", false},
			{models.NewHomeIcon("s", "", models.CmdAppendQueue, "smartpls", "Best"), "MYMPD_API_QUEUE_APPEND_PLAYLIST", "plist", "Best", false},
			{models.NewHomeIcon("d", "", models.CmdInsertQueue, "dir", "Albums/X"), "MYMPD_API_QUEUE_INSERT_URI", "uri", "Albums/X", false},
			{models.NewHomeIcon("w", "", models.CmdInsertPlayQueue, "stream", "http://s"), "MYMPD_API_QUEUE_INSERT_URI", "uri", "http://s", true},
			{models.NewHomeIcon("q", "", models.CmdReplaceQueue, "search", "(Artist == 'X')"), "MYMPD_API_QUEUE_REPLACE_SEARCH", "expression", "(Artist == 'X')", false},
			{models.NewHomeIcon("a", "", models.CmdPlayQueueAlbum, "album", `["Miles Davis"]`, "Kind of Blue"), "MYMPD_API_QUEUE_INSERT_SEARCH", "expression", "((AlbumArtist == 'Miles Davis') AND (Album == 'Kind of Blue'))", true},
		}
		for _, tt := range tc {
			fake, srv := newFakeMyMPD(t)
			fake.reply(tt.method, ok())

			exec, err := NewHomeService(newTestClient(srv.URL), nil).Execute(ctx, tt.icon, nil)
			if err != nil {
				t.Errorf("%s: expected no error, got %v", tt.icon.Cmd, err)
				continue
			}
			if exec.Method != tt.method {
				t.Errorf("expected %s, got %s", tt.method, exec.Method)
			}
			p := fake.recorded()[0].Params
			if p[tt.key] != tt.value || p["play"] != tt.play {
				t.Errorf("%s: unexpected params %v", tt.method, p)
			}
		}
	})

	t.Run("Goto Navigates Locally", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		nav := &fakeNavigator{}
		icon := models.NewHomeIcon("Jukebox", "queue", models.CmdGoto, "Queue", "Jukebox")

		exec, err := NewHomeService(newTestClient(srv.URL), nil).Execute(ctx, icon, nav)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if exec.Path != (viewstate.Path{Card: viewstate.CardQueue, Tab: viewstate.TabJukebox}) || exec.Method != "" {
			t.Errorf("unexpected execution %+v", exec)
		}
		if !slices.Equal(nav.opts, []string{"Queue", "Jukebox"}) {
			t.Errorf("unexpected goto options %v", nav.opts)
		}
		if len(fake.recorded()) != 0 {
			t.Errorf("goto must not call the server, got %v", fake.methods())
		}
	})

	t.Run("Goto Against Real View State", func(t *testing.T) {
		state, err := viewstate.New(viewstate.Options{})
		if err != nil {
			t.Fatalf("viewstate.New failed: %v", err)
		}
		icon := models.NewHomeIcon("Radio", "radio", models.CmdGoto, "Browse", "Radio", "Webradiodb")
		if _, err := NewHomeService(newTestClient("http://unused"), nil).Execute(ctx, icon, state); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state.Current().View != viewstate.ViewWebradiodb {
			t.Errorf("expected Webradiodb, got %s", state.Current().Path)
		}
	})

	t.Run("Script", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		fake.reply(MethodScriptExec, ok())

		icon := models.NewHomeIcon("Lights", "code", models.CmdExecScript, "lights", "room=kitchen,level")
		if _, err := NewHomeService(newTestClient(srv.URL), nil).Execute(ctx, icon, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		p := fake.recorded()[0].Params
		args, _ := p["arguments"].(map[string]any)
		if p["script"] != "lights" || args["room"] != "kitchen" || args["level"] != "" {
			t.Errorf("unexpected script params %v", p)
		}
	})

	t.Run("External Link", func(t *testing.T) {
		fake, srv := newFakeMyMPD(t)
		icon := models.NewHomeIcon("Docs", "link", models.CmdReplaceQueue, "externalLink", "https://jcorporation.github.io")
		exec, err := NewHomeService(newTestClient(srv.URL), nil).Execute(ctx, icon, nil)
		if err != nil || exec.Link != "https://jcorporation.github.io" {
			t.Errorf("unexpected execution %+v (%v)", exec, err)
		}
		if len(fake.recorded()) != 0 {
			t.Error("external links must not call the server")
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		svc := NewHomeService(newTestClient("http://unused"), nil)
		if _, err := svc.Execute(ctx, models.NewHomeIcon("x", "", models.CmdReplaceQueue, "plist"), nil); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if _, err := svc.Execute(ctx, models.NewHomeIcon("x", "", models.CmdGoto, "Queue"), nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if _, err := svc.Execute(ctx, models.NewHomeIcon("x", "", models.CmdExecScript), nil); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestAlbumExpression(t *testing.T) {
	got, err := AlbumExpression(`["A", "B"]`, "It's")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := `((AlbumArtist == 'A') AND (AlbumArtist == 'B') AND (Album == 'It\'s'))`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if got, _ := AlbumExpression("Solo", "X"); got != "((AlbumArtist == 'Solo') AND (Album == 'X'))" {
		t.Errorf("unexpected plain artist expression %s", got)
	}
	if _, err := AlbumExpression("[broken", "X"); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
