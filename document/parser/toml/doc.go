// Package toml provides a TOML parser implementation for the document package,
// built on github.com/pelletier/go-toml/v2.
//
// Sections use colon-separated paths ("game:arena" is the [game.arena] table).
// TOML has no null, so null values are left out when rendering, and keys
// within a table are written in sorted order.
package toml
