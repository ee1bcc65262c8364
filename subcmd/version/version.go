// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/cipd/version"
)

// Cmd returns the Command for the `version` subcommand provided by this package.
func Cmd(ver string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "version",
		ShortDesc: "prints the executable version",
		LongDesc:  "Prints the executable version and the CIPD package the executable was installed from (if it was installed via CIPD).",
		CommandRun: func() subcommands.CommandRun {
			return &versionRun{version: ver}
		},
	}
}

type versionRun struct {
	subcommands.CommandRunBase
	version string
}

func (c *versionRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	fmt.Println(c.version)
	switch ver, err := version.GetStartupVersion(); {
	case err != nil:
		// If the binary is not installed via CIPD,
		// err == nil && ver.InstanceID == "".
		fmt.Fprintf(os.Stderr, "cannot determine CIPD package version: %s\n", err)
		return 1
	case ver.InstanceID == "":
		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return 0
		}
		if buildInfo.GoVersion != "" {
			fmt.Printf("go\t%s\n", buildInfo.GoVersion)
		}
		for _, s := range buildInfo.Settings {
			if strings.HasPrefix(s.Key, "vcs.") {
				fmt.Printf("build\t%s=%s\n", s.Key, s.Value)
			}
		}
	default:
		fmt.Printf("CIPD package name: %s\n", ver.PackageName)
		fmt.Printf("CIPD instance ID:  %s\n", ver.InstanceID)
	}
	return 0
}
