package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

func TestHomeIcon(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		valid := NewHomeIcon("Jazz", "library_music", CmdReplaceQueue, "plist", "Jazz")

		tc := []struct {
			name    string
			mutate  func(*HomeIcon)
			wantErr bool
		}{
			{"valid", func(*HomeIcon) {}, false},
			{"blank name", func(h *HomeIcon) { h.Name = "   " }, true},
			{"missing command", func(h *HomeIcon) { h.Cmd = "" }, true},
			{"bad bgcolor", func(h *HomeIcon) { h.BgColor = "green" }, true},
			{"long color", func(h *HomeIcon) { h.Color = "#1234567" }, true},
			{"short color", func(h *HomeIcon) { h.Color = "#fff" }, false},
			{"too many options", func(h *HomeIcon) { h.Options = make([]string, MaxHomeIconOptions+1) }, true},
			{"command for other type", func(h *HomeIcon) { h.Cmd = CmdReplaceQueueAlbum }, true},
			{"unknown type", func(h *HomeIcon) { h.Options = []string{"bogus", "x"} }, true},
			{"no options", func(h *HomeIcon) { h.Options = nil }, true},
			{"goto", func(h *HomeIcon) { h.Cmd = CmdGoto; h.Options = []string{"Queue", "Jukebox"} }, false},
			{"album command", func(h *HomeIcon) { h.Cmd = CmdPlayQueueAlbum; h.Options = []string{"album", `["Miles Davis"]`, "Kind of Blue"} }, false},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				icon := valid
				icon.Options = append([]string(nil), valid.Options...)
				tt.mutate(&icon)
				err := icon.Validate()
				if tt.wantErr && !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			})
		}
	})

	t.Run("Normalize Clears Ligature For Image", func(t *testing.T) {
		icon := NewHomeIcon("  Radio  ", "radio", CmdAppendQueue, "stream", "http://x")
		icon.Image = "radio.png"
		icon.Normalize()
		if icon.Ligature != "" || icon.Name != "Radio" {
			t.Errorf("unexpected icon after normalize %+v", icon)
		}
		if icon.Label() != "[radio.png]" {
			t.Errorf("unexpected label %q", icon.Label())
		}
	})

	t.Run("Type And Commands", func(t *testing.T) {
		icon := NewHomeIcon("Queue", "queue_music", CmdGoto, viewstate.GotoOptions(viewstate.Pointer{Path: viewstate.Path{Card: viewstate.CardQueue}})...)
		if icon.Type() != IconView {
			t.Errorf("expected goto icons to be views, got %s", icon.Type())
		}

		if cmds := Commands(IconView); len(cmds) != 1 || len(cmds[0].Options) != viewstate.GotoArity {
			t.Errorf("unexpected view commands %+v", cmds)
		}
		if cmds := Commands(IconScript); cmds[0].Command != CmdExecScript {
			t.Errorf("unexpected script commands %+v", cmds)
		}
		if cmds := Commands(IconWebradio); len(cmds) != 4 || cmds[0].Command != CmdReplaceQueue {
			t.Errorf("unexpected webradio commands %+v", cmds)
		}
		if IconExternalLink.FriendlyName() != "External link" || IconType("x").FriendlyName() != "x" {
			t.Error("unexpected friendly names")
		}
		if len(IconTypes()) != 11 {
			t.Errorf("expected 11 icon types, got %d", len(IconTypes()))
		}
	})
}

func TestPartitions(t *testing.T) {
	t.Run("ValidatePartitionName", func(t *testing.T) {
		for _, name := range []string{"kitchen", "living room"} {
			if err := ValidatePartitionName(name); err != nil {
				t.Errorf("ValidatePartitionName(%q) = %v", name, err)
			}
		}
		for _, name := range []string{"", "  ", "a/b", "a\nb"} {
			if err := ValidatePartitionName(name); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("ValidatePartitionName(%q) expected ErrValidation, got %v", name, err)
			}
		}
	})

	t.Run("CanRemovePartition", func(t *testing.T) {
		if err := CanRemovePartition("default", "kitchen"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected default to be protected, got %v", err)
		}
		if err := CanRemovePartition("kitchen", "kitchen"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected current to be protected, got %v", err)
		}
		if err := CanRemovePartition("kitchen", "default"); err != nil {
			t.Errorf("expected kitchen removable, got %v", err)
		}
	})

	t.Run("AssignableOutputs", func(t *testing.T) {
		all := []Output{
			{ID: 0, Name: "Speakers", Plugin: "alsa"},
			{ID: 1, Name: "Stream", Plugin: "httpd"},
			{ID: 2, Name: "Kitchen", Plugin: "pulse"},
		}
		current := []Output{
			{Name: "Kitchen", Plugin: "pulse"},
			{Name: "Speakers", Plugin: DummyPlugin},
		}

		got := AssignableOutputs(all, current)
		if len(got) != 2 || got[0].Name != "Speakers" || got[1].Name != "Stream" {
			t.Errorf("unexpected assignable outputs %+v", got)
		}

		if got := AssignableOutputs(all, all); len(got) != 0 {
			t.Errorf("expected nothing assignable, got %+v", got)
		}
	})
}

func TestViewContext(t *testing.T) {
	ctx := viewstate.Defaults(100)
	v := NewViewContext(viewstate.Path{Card: viewstate.CardHome}, ctx)
	if err := v.Validate(); err != nil {
		t.Fatalf("expected valid context, got %v", err)
	}

	ctx.Limit = 0
	v.SetContext(ctx)
	if err := v.Validate(); !errors.Is(err, shared.ErrValidation) {
		t.Errorf("expected ErrValidation for zero limit, got %v", err)
	}

	if err := NewViewContext(viewstate.Path{}, viewstate.Defaults(10)).Validate(); err == nil {
		t.Error("expected error for missing card")
	}
}
