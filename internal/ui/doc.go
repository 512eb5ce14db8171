// Package ui contains the Bubble Tea program for the workspace client.
// The Model type focuses on message orchestration, while dedicated helpers own
// navigation, input, overlays and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - While a form dialog is open, key presses go to the form. Otherwise the
//     message is routed through a typed handler registry so each tea.Msg is
//     handled by a focused function.
//   - Mutations run on the command bus (internal/ui/command) under their own
//     context. Their results come back as command.Done and are dropped when
//     the dialog that issued them was closed in the meantime.
//
// State ownership:
//   - The workspace, channel and member columns and every popover menu are
//     internal/ui/state.Level values, which track items, filtering and
//     viewport calculations.
//   - User, channel and member stores are provided by internal/state and kept
//     in sync by the dispatcher from watcher events and mutation results.
//   - Which overlay is visible is a single modal.Kind, so two overlays can
//     never be open together.
//
// Backend interactions:
//   - A backend.Watcher streams pipeline results; Update waits for those
//     events and hands them to applyBackendEvent, which refreshes the stores
//     and the columns that depend on them.
package ui
