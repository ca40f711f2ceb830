// Package scratchpad is the Composition Root for the scratchpad application.
//
// It connects the core session logic (Domain Layer) with the storage
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Scratchpad is a single persistent note with autosave. It treats one
// text buffer as durable state, abstracting the underlying storage
// mechanism. While the default implementation uses plain files, the core
// is agnostic, allowing other adapters (bolt, in-memory, or your own).
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Debounced Autosave**: Edits coalesce into one write after a quiet period.
//   - **Status Machine**: idle, saving, saved, and error states for UIs to render.
//   - **Cross-Instance Sync**: External changes to the note are adopted live.
//   - **Default Adapter (FS)**: One file per key, atomic writes, fsnotify change feed.
//   - **Extensible**: Designed to support other backends via `core.Store`.
//
// Usage:
//
//	// Initialize a session with functional options
//	pad, err := scratchpad.New("~/.scratchpad",
//		scratchpad.WithLogger(logger),
//	)
//
//	// Load it, then feed it keystrokes
//	err = pad.Load(ctx)
//	pad.SetContent("draft")
package scratchpad
