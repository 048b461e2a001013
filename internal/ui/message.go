package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mympctl/internal/models"
	"github.com/desertthunder/mympctl/internal/services"
	"github.com/desertthunder/mympctl/internal/viewstate"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHomeLoaded MsgKind = iota
	MsgIconExecuted
	MsgPartitionsLoaded
	MsgOutputsLoaded
	MsgActionDone
	MsgEvent
	MsgCallback
)

type homeLoaded struct {
	path  viewstate.Path
	icons []models.HomeIcon
	err   error
}

type iconExecuted struct {
	icon models.HomeIcon
	exec services.Execution
	err  error
}

type partitionsLoaded struct {
	partitions []models.Partition
	current    string
	err        error
}

type outputsLoaded struct {
	outputs []models.Output
	err     error
}

type actionDone struct {
	status     string
	err        error
	reloadHome bool
	switched   string
}

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(path viewstate.Path, icons []models.HomeIcon, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: homeLoaded{path, icons, err}}
}

// iconExecutedMsg is the constructor for [MsgIconExecuted]
func iconExecutedMsg(icon models.HomeIcon, exec services.Execution, err error) Msg {
	return Msg{kind: MsgIconExecuted, data: iconExecuted{icon, exec, err}}
}

// partitionsLoadedMsg is the constructor for [MsgPartitionsLoaded]
func partitionsLoadedMsg(partitions []models.Partition, current string, err error) Msg {
	return Msg{kind: MsgPartitionsLoaded, data: partitionsLoaded{partitions, current, err}}
}

// outputsLoadedMsg is the constructor for [MsgOutputsLoaded]
func outputsLoadedMsg(outputs []models.Output, err error) Msg {
	return Msg{kind: MsgOutputsLoaded, data: outputsLoaded{outputs, err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(status string, err error, reloadHome bool) Msg {
	return Msg{kind: MsgActionDone, data: actionDone{status: status, err: err, reloadHome: reloadHome}}
}

// partitionSwitchedMsg is the [MsgActionDone] for a partition switch.
func partitionSwitchedMsg(name string, err error) Msg {
	d := actionDone{status: "switched to " + name, err: err, reloadHome: true}
	if err == nil {
		d.switched = name
	}
	return Msg{kind: MsgActionDone, data: d}
}

// EventMsg wraps a websocket notification for delivery with tea.Program.Send.
func EventMsg(ev services.Event) tea.Msg {
	return Msg{kind: MsgEvent, data: ev}
}

// CallbackMsg wraps a request completion so it runs inside Update. The TUI sets
// services.Client.Deliver to send these.
func CallbackMsg(fn func()) tea.Msg {
	return Msg{kind: MsgCallback, data: fn}
}
