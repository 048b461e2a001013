package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/desertthunder/mympctl/internal/shared"
)

// MaxHomeIconOptions is the most options a home icon may carry.
const MaxHomeIconOptions = 10

// Default colors of a freshly added home icon.
const (
	DefaultIconBgColor = "#28a745"
	DefaultIconColor   = "#ffffff"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{1,6}$`)

// IconType is the first option of a home icon and selects which commands apply.
type IconType string

const (
	IconPlaylist      IconType = "plist"
	IconSmartPlaylist IconType = "smartpls"
	IconDirectory     IconType = "dir"
	IconSong          IconType = "song"
	IconSearch        IconType = "search"
	IconAlbum         IconType = "album"
	IconStream        IconType = "stream"
	IconView          IconType = "view"
	IconScript        IconType = "script"
	IconWebradio      IconType = "webradio"
	IconExternalLink  IconType = "externalLink"
)

var iconTypeNames = map[IconType]string{
	IconPlaylist:      "Playlist",
	IconSmartPlaylist: "Smart playlist",
	IconDirectory:     "Directory",
	IconSong:          "Song",
	IconSearch:        "Search",
	IconAlbum:         "Album",
	IconStream:        "Stream",
	IconView:          "View",
	IconScript:        "Script",
	IconWebradio:      "Webradio",
	IconExternalLink:  "External link",
}

// IconTypes lists every known icon type.
func IconTypes() []IconType {
	return []IconType{
		IconPlaylist, IconSmartPlaylist, IconDirectory, IconSong, IconSearch, IconAlbum,
		IconStream, IconView, IconScript, IconWebradio, IconExternalLink,
	}
}

// FriendlyName returns a display name, or the raw type when unknown.
func (t IconType) FriendlyName() string {
	if name, ok := iconTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// IconCommand is what clicking a home icon does.
type IconCommand string

const (
	CmdGoto              IconCommand = "appGoto"
	CmdExecScript        IconCommand = "execScriptFromOptions"
	CmdReplaceQueueAlbum IconCommand = "replaceQueueAlbum"
	CmdInsertQueueAlbum  IconCommand = "insertQueueAlbum"
	CmdPlayQueueAlbum    IconCommand = "playQueueAlbum"
	CmdAppendQueueAlbum  IconCommand = "appendQueueAlbum"
	CmdReplaceQueue      IconCommand = "replaceQueue"
	CmdInsertQueue       IconCommand = "insertAfterCurrentQueue"
	CmdInsertPlayQueue   IconCommand = "insertAndPlayQueue"
	CmdAppendQueue       IconCommand = "appendQueue"
)

// CommandChoice pairs a command with the labels of the options it reads.
type CommandChoice struct {
	Command IconCommand
	Label   string
	Options []string
}

// Commands lists the commands an icon of type t may run, the first being the default.
func Commands(t IconType) []CommandChoice {
	switch t {
	case IconView:
		return []CommandChoice{
			{CmdGoto, "Goto view", []string{"App", "Tab", "View", "Offset", "Limit", "Filter", "Sort", "Tag", "Search"}},
		}
	case IconScript:
		return []CommandChoice{
			{CmdExecScript, "Execute script", []string{"Script", "Arguments"}},
		}
	case IconAlbum:
		opts := []string{"Type", "Albumartist", "Album"}
		return []CommandChoice{
			{CmdReplaceQueueAlbum, "Replace queue", opts},
			{CmdInsertQueueAlbum, "Insert after current playing song", opts},
			{CmdPlayQueueAlbum, "Add to queue and play", opts},
			{CmdAppendQueueAlbum, "Append to queue", opts},
		}
	default:
		opts := []string{"Type", "Uri"}
		return []CommandChoice{
			{CmdReplaceQueue, "Replace queue", opts},
			{CmdInsertQueue, "Insert after current playing song", opts},
			{CmdInsertPlayQueue, "Add to queue and play", opts},
			{CmdAppendQueue, "Append to queue", opts},
		}
	}
}

// HomeIcon is one shortcut on the home screen. Its position is its index in the list
// returned by the backend.
type HomeIcon struct {
	Name     string      `json:"name" yaml:"name"`
	Ligature string      `json:"ligature" yaml:"ligature,omitempty"`
	BgColor  string      `json:"bgcolor" yaml:"bgcolor"`
	Color    string      `json:"color" yaml:"color"`
	Image    string      `json:"image" yaml:"image,omitempty"`
	Cmd      IconCommand `json:"cmd" yaml:"cmd"`
	Options  []string    `json:"options" yaml:"options"`
}

// NewHomeIcon builds an icon with the default colors.
func NewHomeIcon(name, ligature string, cmd IconCommand, options ...string) HomeIcon {
	return HomeIcon{
		Name:     name,
		Ligature: ligature,
		BgColor:  DefaultIconBgColor,
		Color:    DefaultIconColor,
		Cmd:      cmd,
		Options:  options,
	}
}

// Type returns the icon type. Goto and script icons are recognized by their command, every
// other icon stores its type in the first option.
func (h HomeIcon) Type() IconType {
	switch h.Cmd {
	case CmdGoto:
		return IconView
	case CmdExecScript:
		return IconScript
	}
	if len(h.Options) == 0 {
		return ""
	}
	return IconType(h.Options[0])
}

// Normalize trims the name and clears the ligature when an image is set, since the image
// replaces it.
func (h *HomeIcon) Normalize() {
	h.Name = strings.TrimSpace(h.Name)
	if h.Image != "" {
		h.Ligature = ""
	}
}

// Validate checks the fields myMPD would reject.
func (h HomeIcon) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name must not be blank", shared.ErrValidation)
	}
	if h.Cmd == "" {
		return fmt.Errorf("%w: command is required", shared.ErrValidation)
	}
	for field, c := range map[string]string{"bgcolor": h.BgColor, "color": h.Color} {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("%w: %s %q is not a hex color", shared.ErrValidation, field, c)
		}
	}
	if len(h.Options) > MaxHomeIconOptions {
		return fmt.Errorf("%w: at most %d options, got %d", shared.ErrValidation, MaxHomeIconOptions, len(h.Options))
	}
	if _, ok := iconTypeNames[h.Type()]; !ok {
		return fmt.Errorf("%w: unknown icon type %q", shared.ErrValidation, h.Type())
	}
	if !slices.ContainsFunc(Commands(h.Type()), func(c CommandChoice) bool { return c.Command == h.Cmd }) {
		return fmt.Errorf("%w: command %s does not apply to %s icons", shared.ErrValidation, h.Cmd, h.Type())
	}
	return nil
}

// Label is the text shown for the icon: its ligature, or a placeholder when it uses an image.
func (h HomeIcon) Label() string {
	if h.Image != "" {
		return "[" + h.Image + "]"
	}
	return h.Ligature
}
