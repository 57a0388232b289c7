// Package logging builds the slog logger shared by managers, watchers and the
// admin endpoint. JSON is the default output; text suits terminals.
package logging
