// Package ui contains the Bubble Tea program that powers the session browser.
// Model focuses on message orchestration while dedicated helpers own the list,
// the history view, filter input, toasts and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Key presses go to the list helpers (navigation.go, input.go) while the
//     list is showing, and to the history helpers (history.go) once a session
//     has been opened.
//
// State ownership:
//   - The list cursor, filter and viewport live in internal/ui/state.List.
//   - Which session is open, whether it is loading and the last load error
//     belong to internal/ui/sessions.View. Fetches run as tea.Cmd values and
//     report back through sessions.LoadedMsg; results from superseded fetches
//     are dropped there.
//   - Resume requests run on the internal/ui/command bus and come back as
//     command.Result messages.
//   - Toasts are held by internal/toast.Queue and pruned on a timer.
//
// Backend interactions:
//   - A backend.Watcher streams session list snapshots. Update waits for those
//     events and hands them to the dispatcher, which refreshes the session
//     store the list is built from.
package ui
