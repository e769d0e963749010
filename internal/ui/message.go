package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/txa/internal/tasks"
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
	MsgProgressUpdate MsgKind = iota
	MsgSubmitComplete
	MsgExportComplete
)

// Kind reports which message this is.
func (m Msg) Kind() MsgKind { return m.kind }

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// submitCompleteMsg is the constructor for [MsgSubmitComplete]
func submitCompleteMsg(outcome *tasks.Outcome) Msg {
	return Msg{kind: MsgSubmitComplete, data: outcome}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *tasks.ExportResult, err error) Msg {
	return Msg{
		kind: MsgExportComplete,
		data: struct {
			result *tasks.ExportResult
			err    error
		}{result, err},
	}
}
