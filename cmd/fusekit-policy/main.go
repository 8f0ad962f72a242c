// Copyright 2026 The Fusekit Authors
// SPDX-License-Identifier: Apache-2.0

// fusekit-policy prints the effective mount policy and checks it
// against the current state of the system. Exit status 0 means new
// mounts are permitted under the policy, 1 means the mount cap is
// already reached, 2 means the policy file is unusable.
//
//	fusekit-policy [--conf PATH]
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/fusekit/lib/fuseconf"
	"github.com/bureau-foundation/fusekit/lib/mount"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	flagSet := pflag.NewFlagSet("fusekit-policy", pflag.ContinueOnError)
	confPath := flagSet.String("conf", fuseconf.DefaultPath, "path to the mount policy file")
	showHelp := flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		return 2, err
	}
	if *showHelp {
		fmt.Fprintf(os.Stderr, "usage: fusekit-policy [flags]\n\nflags:\n%s", flagSet.FlagUsages())
		return 0, nil
	}

	policy, err := fuseconf.Load(*confPath)
	if err != nil {
		return 2, err
	}

	fmt.Printf("policy file:      %s\n", *confPath)
	fmt.Printf("user_allow_other: %v\n", policy.UserAllowOther)
	fmt.Printf("mount_max:        %d\n", policy.MountMax)
	if len(policy.DefaultOptions) > 0 {
		fmt.Printf("default_options:  -o %s\n", strings.Join(policy.DefaultOptions, ","))
	}

	active, err := mount.ActiveMounts()
	if err != nil {
		return 2, fmt.Errorf("reading mount table: %w", err)
	}
	fmt.Printf("active mounts:    %d\n", active)

	if active >= policy.MountMax {
		fmt.Printf("status:           mount cap reached\n")
		return 1, nil
	}
	fmt.Printf("status:           ok\n")
	return 0, nil
}
