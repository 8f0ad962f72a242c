// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// hellofs mounts a one-file read-only filesystem and exists to
// exercise the full fusekit option pipeline: the binary's own option
// pass (built with optdef) runs first, the mount layer's pass claims
// what that left behind, and the remainder is forwarded to the
// kernel.
//
//	hellofs [flags] [options] mountpoint
//	hellofs --log-level debug -o greeting='hi there' /mnt/hello
//
// The mount policy file is read from --fuse-conf when given, else from
// FUSEKIT_CONF when set, otherwise from the system default path.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fusekit/lib/fuseconf"
	"github.com/bureau-foundation/fusekit/lib/fuseopt"
	"github.com/bureau-foundation/fusekit/lib/mount"
	"github.com/bureau-foundation/fusekit/lib/optdef"
	"github.com/bureau-foundation/fusekit/lib/termlog"
)

const version = "0.1.0"

// options is the record hellofs's own parse pass populates.
type options struct {
	ShowHelp    bool
	ShowVersion bool
	Debug       bool
	Greeting    string
	Mountpoint  string
}

var gopts = optdef.MustBuild[options](
	optdef.HelpOption[options]{
		Help: "print help and exit",
		Action: func(o *options, arg string, out *fuseopt.Args) error {
			o.ShowHelp = true
			return nil
		},
	},
	optdef.VersionOption[options]{
		Help: "print version and exit",
		Action: func(o *options, arg string, out *fuseopt.Args) error {
			o.ShowVersion = true
			return nil
		},
	},
	optdef.DebugOption[options]{
		Help: "enable debug output",
		Action: func(o *options, arg string, out *fuseopt.Args) error {
			o.Debug = true
			return nil
		},
	},
	optdef.Flag[options]{
		Dash: "-f",
		Help: "run in foreground (the default; accepted for compatibility)",
	},
	optdef.ParamOption[options]{
		Name: "greeting", Conv: "%s", Metavar: "TEXT",
		Help:  "contents of the hello file",
		Field: func(o *options) any { return &o.Greeting },
	},
	optdef.Positional[options]{
		Action: func(o *options, arg string, out *fuseopt.Args) error {
			if o.Mountpoint != "" {
				return fmt.Errorf("unexpected argument %q (mountpoint already given)", arg)
			}
			o.Mountpoint = arg
			return nil
		},
	},
)

// outerFlags defines the pflag flags that configure the hellofs
// process itself; the fuse option passes never see them.
func outerFlags() (flagSet *pflag.FlagSet, logLevel, confPath *string) {
	flagSet = pflag.NewFlagSet("hellofs", pflag.ContinueOnError)
	logLevel = flagSet.String("log-level", "info", "log verbosity (debug, info, warn, error)")
	confPath = flagSet.String("fuse-conf", "", "mount policy file (overrides $FUSEKIT_CONF and the system default)")
	return flagSet, logLevel, confPath
}

// claimFlags splits argv into the arguments belonging to flagSet and
// the remainder for the fuse option passes. Flags may appear anywhere
// on the command line; only long flags defined in flagSet are claimed,
// and "--flag value" consumes the following argument.
func claimFlags(argv []string, flagSet *pflag.FlagSet) (claimed, rest []string) {
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if strings.HasPrefix(arg, "--") {
			name := arg[2:]
			hasValue := false
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				name = name[:eq]
				hasValue = true
			}
			if f := flagSet.Lookup(name); f != nil {
				claimed = append(claimed, arg)
				if !hasValue && f.Value.Type() != "bool" && i+1 < len(argv) {
					i++
					claimed = append(claimed, argv[i])
				}
				continue
			}
		}
		rest = append(rest, arg)
	}
	return claimed, rest
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet, logLevel, confPath := outerFlags()
	claimed, rest := claimFlags(os.Args[1:], flagSet)
	if err := flagSet.Parse(claimed); err != nil {
		return err
	}

	policyPath := *confPath
	if policyPath == "" {
		policyPath = os.Getenv("FUSEKIT_CONF")
	}
	if policyPath == "" {
		policyPath = fuseconf.DefaultPath
	}
	policy, err := fuseconf.Load(policyPath)
	if err != nil {
		return err
	}

	args := fuseopt.NewArgs(append([]string{os.Args[0]}, rest...))
	// Policy defaults go in front of the real command line, so
	// explicit options parse later and win.
	if len(policy.DefaultOptions) > 0 {
		args.Insert(1, "-o")
		args.Insert(2, strings.Join(policy.DefaultOptions, ","))
	}

	opts := options{Greeting: "Hello, World!\n"}
	if err := gopts.Parse(args, &opts); err != nil {
		return err
	}

	if opts.ShowHelp {
		usage(os.Stderr, flagSet)
		return nil
	}
	if opts.ShowVersion {
		fmt.Fprintf(os.Stderr, "hellofs version %s\n", version)
		return nil
	}
	if opts.Mountpoint == "" {
		usage(os.Stderr, flagSet)
		return fmt.Errorf("mountpoint is required")
	}

	var mountConfig mount.Config
	if err := mount.ParseArgs(args, &mountConfig); err != nil {
		return err
	}
	if mountConfig.FsName == "" {
		mountConfig.FsName = "hellofs"
	}
	if mountConfig.Subtype == "" {
		mountConfig.Subtype = "hellofs"
	}

	level, err := termlog.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	if opts.Debug || mountConfig.Debug {
		level = slog.LevelDebug
	}
	logger := termlog.New(level)

	server, err := mount.Mount(opts.Mountpoint, newHelloRoot(opts.Greeting), &mountConfig, policy, logger)
	if err != nil {
		return err
	}

	// Unmount on SIGINT/SIGTERM so Wait returns and the mountpoint
	// is not left dangling.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Info("unmounting on signal", "signal", sig.String())
		if err := server.Unmount(); err != nil {
			logger.Error("unmount failed", "error", err)
		}
	}()

	logger.Info("serving", "mountpoint", opts.Mountpoint)
	server.Wait()
	return nil
}

func usage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "usage: hellofs [flags] [options] mountpoint\n\nhellofs options:\n")
	gopts.WriteHelp(w)
	fmt.Fprintf(w, "\nprocess flags:\n%s", flagSet.FlagUsages())
	fmt.Fprintf(w, "\nmount options:\n")
	mount.WriteHelp(w)
}
