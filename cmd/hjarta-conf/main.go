// hjarta-conf loads a configuration document, keeps it loaded while watching
// the file for changes and, with --admin-addr, serves the admin API for it.
//
// Usage:
//
//	hjarta-conf --file config/settings.yaml [--section server] [--default defaults.yaml]
//	hjarta-conf --file settings.toml --check
//
// --check loads the document once and exits non-zero if it does not decode.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	conf "github.com/0xalexb/hjarta-conf"
	"github.com/0xalexb/hjarta-conf/admin"
	"github.com/0xalexb/hjarta-conf/logging"
	"github.com/0xalexb/hjarta-conf/manager"
	"github.com/0xalexb/hjarta-conf/provision"
	"github.com/0xalexb/hjarta-conf/watcher"
)

var errNoFile = errors.New("--file is required")

// document is the untyped document shape; every value keeps its raw form.
type document = map[string]any

type flags struct {
	file      string
	section   string
	defaults  string
	logLevel  string
	logFormat string
	debounce  time.Duration
	adminAddr string
	check     bool
	version   bool
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags

	flagSet := pflag.NewFlagSet("hjarta-conf", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&f.file, "file", "f", "", "path to the document (.yaml, .yml, .json, .jsonc, .toml)")
	flagSet.StringVar(&f.section, "section", "", "colon separated section of the document to manage")
	flagSet.StringVar(&f.defaults, "default", "", "file copied into place when the document is missing")
	flagSet.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.StringVar(&f.logFormat, "log-format", logging.FormatJSON, "log format: json or text")
	flagSet.DurationVar(&f.debounce, "debounce", watcher.DefaultDebounce, "quiet period before reloading a changed file")
	flagSet.StringVar(&f.adminAddr, "admin-addr", "", "serve the admin API on this address")
	flagSet.BoolVar(&f.check, "check", false, "load the document once and exit")
	flagSet.BoolVar(&f.version, "version", false, "print the version and exit")

	err := flagSet.Parse(args)
	if err != nil {
		return f, err //nolint:wrapcheck
	}

	if args := flagSet.Args(); len(args) > 0 {
		return f, fmt.Errorf("unexpected argument: %s", args[0]) //nolint:err113
	}

	return f, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	if f.version {
		fmt.Fprintf(stdout, "hjarta-conf %s (library %s, built %s)\n", conf.Version, conf.LibraryVersion, conf.CompiledAt)

		return nil
	}

	if f.file == "" {
		return errNoFile
	}

	name := filepath.Base(f.file)

	opts := []manager.Option{
		manager.WithSection(f.section),
		manager.WithDebounce(f.debounce),
	}

	if f.defaults != "" {
		opts = append(opts, manager.WithProvisioner(provision.FromFile(f.defaults)))
	}

	if f.check {
		return check(f, name, stdout, stderr, opts)
	}

	opts = append(opts, manager.WithOnReload(func() {
		slog.Info("document changed", slog.String("document", name))
	}))

	appOpts := []conf.Option{
		conf.WithLogLevel(f.logLevel),
		conf.WithLogFormat(f.logFormat),
		conf.WithLogOutput(stderr),
		conf.WithManager[document](name, f.file, opts...),
	}

	if f.adminAddr != "" {
		appOpts = append(appOpts, conf.WithAdmin(name, admin.WithAddress(f.adminAddr)))
	}

	conf.NewApp(appOpts...).Run()

	return nil
}

func check(f flags, name string, stdout, stderr io.Writer, opts []manager.Option) error {
	logger := logging.NewLogger(logging.LoggerConfig{Level: f.logLevel, Format: f.logFormat}, stderr)

	opts = append(opts, manager.WithLogger(logger), manager.WithoutWatch())

	m, err := manager.New[document](f.file, opts...)
	if err != nil {
		return err
	}

	err = m.Init(context.Background())
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	fmt.Fprintf(stdout, "%s: ok (%d top-level keys)\n", m.Path(), len(*m.Value()))

	return nil
}
