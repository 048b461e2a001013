package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/shared"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// myMPD methods for the home screen.
const (
	MethodHomeIconList = "MYMPD_API_HOME_ICON_LIST"
	MethodHomeIconGet  = "MYMPD_API_HOME_ICON_GET"
	MethodHomeIconSave = "MYMPD_API_HOME_ICON_SAVE"
	MethodHomeIconRm   = "MYMPD_API_HOME_ICON_RM"
	MethodHomeIconMove = "MYMPD_API_HOME_ICON_MOVE"
	MethodScriptExec   = "MYMPD_API_SCRIPT_EXECUTE"
)

type homeListResult struct {
	ReturnedEntities int               `json:"returnedEntities"`
	Data             []models.HomeIcon `json:"data"`
}

type homeGetResult struct {
	Data models.HomeIcon `json:"data"`
}

type homeSaveParams struct {
	Replace bool `json:"replace"`
	OldPos  int  `json:"oldpos"`
	models.HomeIcon
}

// HomeService manages the home screen icons of a myMPD server.
type HomeService struct {
	caller Caller
	logger *log.Logger
}

// NewHomeService creates a [HomeService].
func NewHomeService(caller Caller, logger *log.Logger) *HomeService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &HomeService{caller: caller, logger: logger}
}

// List returns the icons in display order.
func (s *HomeService) List(ctx context.Context) ([]models.HomeIcon, error) {
	var res homeListResult
	if err := s.caller.Call(ctx, MethodHomeIconList, nil, &res); err != nil {
		return nil, fmt.Errorf("failed to list home icons: %w", err)
	}
	return res.Data, nil
}

// Get returns the icon at pos.
func (s *HomeService) Get(ctx context.Context, pos int) (models.HomeIcon, error) {
	if pos < 0 {
		return models.HomeIcon{}, fmt.Errorf("%w: position %d", shared.ErrInvalidArgument, pos)
	}
	var res homeGetResult
	if err := s.caller.Call(ctx, MethodHomeIconGet, map[string]int{"pos": pos}, &res); err != nil {
		return models.HomeIcon{}, fmt.Errorf("failed to get home icon %d: %w", pos, err)
	}
	return res.Data, nil
}

// save normalizes and validates icon before sending it, so invalid icons never reach the server.
func (s *HomeService) save(ctx context.Context, icon models.HomeIcon, replace bool, oldPos int) error {
	icon.Normalize()
	if err := icon.Validate(); err != nil {
		return err
	}
	if icon.Options == nil {
		icon.Options = []string{}
	}

	params := homeSaveParams{Replace: replace, OldPos: oldPos, HomeIcon: icon}
	if err := s.caller.Call(ctx, MethodHomeIconSave, params, nil); err != nil {
		return fmt.Errorf("failed to save home icon %q: %w", icon.Name, err)
	}
	s.logger.Info("saved home icon", "name", icon.Name, "replace", replace, "oldpos", oldPos)
	return nil
}

// Add appends a new icon.
func (s *HomeService) Add(ctx context.Context, icon models.HomeIcon) error {
	return s.save(ctx, icon, false, 0)
}

// Edit replaces the icon at pos.
func (s *HomeService) Edit(ctx context.Context, pos int, icon models.HomeIcon) error {
	return s.save(ctx, icon, true, pos)
}

// Duplicate stores a copy of the icon at pos, optionally renamed.
func (s *HomeService) Duplicate(ctx context.Context, pos int, name string) error {
	icon, err := s.Get(ctx, pos)
	if err != nil {
		return err
	}
	if name != "" {
		icon.Name = name
	}
	return s.save(ctx, icon, false, pos)
}

// Delete removes the icon at pos and returns the remaining icons.
func (s *HomeService) Delete(ctx context.Context, pos int) ([]models.HomeIcon, error) {
	if pos < 0 {
		return nil, fmt.Errorf("%w: position %d", shared.ErrInvalidArgument, pos)
	}
	if err := s.caller.Call(ctx, MethodHomeIconRm, map[string]int{"pos": pos}, nil); err != nil {
		return nil, fmt.Errorf("failed to remove home icon %d: %w", pos, err)
	}
	return s.List(ctx)
}

// Move moves the icon at from to to and returns the ordering the server reports afterwards.
// Equal positions are rejected with [shared.ErrNoOpMove] without a request.
func (s *HomeService) Move(ctx context.Context, from, to int) ([]models.HomeIcon, error) {
	if from == to {
		return nil, shared.ErrNoOpMove
	}
	if from < 0 || to < 0 {
		return nil, fmt.Errorf("%w: move %d -> %d", shared.ErrInvalidArgument, from, to)
	}
	if err := s.caller.Call(ctx, MethodHomeIconMove, moveParams{From: from, To: to}, nil); err != nil {
		return nil, fmt.Errorf("failed to move home icon %d -> %d: %w", from, to, err)
	}
	return s.List(ctx)
}

type moveParams struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// HomeMover persists drag-and-drop moves of home icons without blocking the caller.
// The completion receives the list as the server orders it after the move.
type HomeMover struct {
	requester Requester
}

// NewHomeMover creates a [HomeMover].
func NewHomeMover(r Requester) *HomeMover {
	return &HomeMover{requester: r}
}

// Move issues the move and then re-reads the list.
func (m *HomeMover) Move(from, to int, done func([]models.HomeIcon, error)) {
	m.requester.Request(MethodHomeIconMove, moveParams{From: from, To: to}, func(r Response) {
		if r.Err != nil {
			done(nil, fmt.Errorf("failed to move home icon %d -> %d: %w", from, to, r.Err))
			return
		}
		m.requester.Request(MethodHomeIconList, nil, func(r Response) {
			var res homeListResult
			if err := r.Decode(&res); err != nil {
				done(nil, fmt.Errorf("failed to list home icons: %w", err))
				return
			}
			done(res.Data, nil)
		})
	})
}

// Navigator is the part of the view state a goto icon drives.
type Navigator interface {
	Goto(opts []string) (viewstate.BrowsingContext, error)
}

// Execution describes what running an icon did.
type Execution struct {
	// Method is the backend method called, empty when the icon acted locally.
	Method string
	// Path is the screen a goto icon switched to.
	Path viewstate.Path
	// Link is the address of an external link icon, which is reported rather than opened.
	Link string
}

// Execute runs the command of icon. Goto icons only move nav; everything else calls the server.
func (s *HomeService) Execute(ctx context.Context, icon models.HomeIcon, nav Navigator) (Execution, error) {
	switch icon.Cmd {
	case models.CmdGoto:
		if nav == nil {
			return Execution{}, fmt.Errorf("%w: no view state to navigate", shared.ErrMissingArgument)
		}
		p, _, err := viewstate.ParseGoto(icon.Options)
		if err != nil {
			return Execution{}, err
		}
		if _, err := nav.Goto(icon.Options); err != nil {
			return Execution{}, err
		}
		return Execution{Path: p}, nil
	case models.CmdExecScript:
		if len(icon.Options) == 0 || icon.Options[0] == "" {
			return Execution{}, fmt.Errorf("%w: script name", shared.ErrMissingArgument)
		}
		args := ""
		if len(icon.Options) > 1 {
			args = icon.Options[1]
		}
		params := map[string]any{"script": icon.Options[0], "arguments": ParseScriptArguments(args)}
		if err := s.caller.Call(ctx, MethodScriptExec, params, nil); err != nil {
			return Execution{}, fmt.Errorf("failed to execute script %q: %w", icon.Options[0], err)
		}
		return Execution{Method: MethodScriptExec}, nil
	}

	method, params, err := QueueRequest(icon)
	if err != nil {
		return Execution{}, err
	}
	if method == "" {
		return Execution{Link: params["uri"].(string)}, nil
	}
	if err := s.caller.Call(ctx, method, params, nil); err != nil {
		return Execution{}, fmt.Errorf("failed to run %s for %q: %w", icon.Cmd, icon.Name, err)
	}
	s.logger.Info("executed home icon", "name", icon.Name, "method", method)
	return Execution{Method: method}, nil
}

// QueueRequest maps a queue icon onto the backend method and parameters it runs.
// External links map to an empty method with the link in params["uri"].
func QueueRequest(icon models.HomeIcon) (string, map[string]any, error) {
	if len(icon.Options) < 2 {
		return "", nil, fmt.Errorf("%w: %s icons need a type and a target", shared.ErrValidation, icon.Cmd)
	}

	var action string
	play := false
	switch icon.Cmd {
	case models.CmdReplaceQueue, models.CmdReplaceQueueAlbum:
		action = "REPLACE"
	case models.CmdAppendQueue, models.CmdAppendQueueAlbum:
		action = "APPEND"
	case models.CmdInsertQueue, models.CmdInsertQueueAlbum:
		action = "INSERT"
	case models.CmdInsertPlayQueue, models.CmdPlayQueueAlbum:
		action, play = "INSERT", true
	default:
		return "", nil, fmt.Errorf("%w: unknown command %q", shared.ErrValidation, icon.Cmd)
	}

	target := icon.Options[1]
	switch icon.Type() {
	case models.IconPlaylist, models.IconSmartPlaylist:
		return "MYMPD_API_QUEUE_" + action + "_PLAYLIST", map[string]any{"plist": target, "play": play}, nil
	case models.IconSearch:
		return "MYMPD_API_QUEUE_" + action + "_SEARCH", map[string]any{"expression": target, "play": play}, nil
	case models.IconAlbum:
		if len(icon.Options) < 3 {
			return "", nil, fmt.Errorf("%w: album icons need an album artist and an album", shared.ErrValidation)
		}
		expr, err := AlbumExpression(target, icon.Options[2])
		if err != nil {
			return "", nil, err
		}
		return "MYMPD_API_QUEUE_" + action + "_SEARCH", map[string]any{"expression": expr, "play": play}, nil
	case models.IconExternalLink:
		return "", map[string]any{"uri": target}, nil
	default:
		return "MYMPD_API_QUEUE_" + action + "_URI", map[string]any{"uri": target, "play": play}, nil
	}
}

// AlbumExpression builds an MPD filter matching every album artist and the album title.
// albumArtists is a JSON array, or a single plain name.
func AlbumExpression(albumArtists, album string) (string, error) {
	var artists []string
	if strings.HasPrefix(strings.TrimSpace(albumArtists), "[") {
		if err := json.Unmarshal([]byte(albumArtists), &artists); err != nil {
			return "", fmt.Errorf("%w: album artists %q: %v", shared.ErrValidation, albumArtists, err)
		}
	} else if albumArtists != "" {
		artists = []string{albumArtists}
	}

	terms := make([]string, 0, len(artists)+1)
	for _, a := range artists {
		terms = append(terms, "(AlbumArtist == '"+escapeMPD(a)+"')")
	}
	terms = append(terms, "(Album == '"+escapeMPD(album)+"')")
	return "(" + strings.Join(terms, " AND ") + ")", nil
}

func escapeMPD(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`, `"`, `\"`).Replace(s)
}

// ParseScriptArguments turns "a=1,b" into {"a": "1", "b": ""}.
func ParseScriptArguments(s string) map[string]string {
	args := map[string]string{}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		args[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return args
}
