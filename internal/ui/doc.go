// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI replaces the browser form with a small workflow:
//  1. [EditView] : type URLs into a text input and manage the numbered list
//  2. [SubmittingView] : spinner and phase messages while the request is outstanding
//  3. [AlertView] : blocking alert for empty submissions, invalid URLs and failures
//  4. [ResultView] : word-cloud grid and bar charts, with report export on "e"
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Pipeline], so the spinner keeps running during the request.
//
// [RenderFigure], [RenderWordClouds] and [RenderSet] draw the same chart structures with lipgloss and are
// shared with the non-interactive analyze command.
package ui
