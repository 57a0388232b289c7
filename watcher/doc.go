// Package watcher calls a handler when one file changes on disk.
//
// The state machine is Idle -> Watching -> Reloading -> Watching, with
// Stopped as the terminal state of a subscription. Start after Stop creates
// a fresh subscription.
//
// The parent directory is watched with fsnotify and events are filtered to
// the file's base name, so editors and writers that replace the file by
// renaming a temporary file over it are still observed. Events restart a
// debounce timer (WithDebounce). When it fires a reload is queued in a
// one-slot channel drained by a single goroutine: reloads never overlap,
// and any number of changes during a reload produce exactly one trailing
// reload.
package watcher
