package admin

import (
	"errors"
	"time"

	"github.com/0xalexb/hjarta-conf/admin/middleware"
)

// DefaultAddress is the default address for the admin listener.
const DefaultAddress = "127.0.0.1:7070"

// ErrEmptyAddress is returned when the address is empty.
var ErrEmptyAddress = errors.New("address must not be empty")

// ErrListenFailed is returned when the server fails to listen on the configured address.
var ErrListenFailed = errors.New("failed to listen")

// ErrShutdownFailed is returned when the server fails to shut down gracefully.
var ErrShutdownFailed = errors.New("shutdown failed")

// ErrEmptyName is returned when the admin module name is empty.
var ErrEmptyName = errors.New("admin name must not be empty")

// ErrNilHandler is returned when a nil http.Handler is provided.
var ErrNilHandler = errors.New("handler must not be nil")

// ErrNilTarget is returned when a nil Target is provided.
var ErrNilTarget = errors.New("target must not be nil")

// Config holds the configuration for an admin listener.
type Config struct {
	Address        string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// SetDefaults sets default values for the Config.
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}

	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = middleware.DefaultMaxBodyBytes
	}

	if c.RequestTimeout <= 0 {
		c.RequestTimeout = middleware.DefaultTimeout
	}
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	return nil
}
