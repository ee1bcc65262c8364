// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package msvcutil provides utilities of msvc.
package msvcutil

import (
	"slices"
	"strconv"

	"go.chromium.org/infra/build/compilecheck/toolsupport/winargs"
)

// CommandLine summarizes the code-quality settings resolved from a
// cl.exe (or clang-cl) invocation command line, as recorded in a
// binary's debug info. It is read-only once constructed.
type CommandLine struct {
	// Raw is the original command line, "" if none was recorded.
	Raw string `json:"raw"`

	// WarningLevel is the global warning level, 0 to 4.
	WarningLevel int `json:"warning_level"`

	// WarningsAsErrors indicates /WX was in effect.
	WarningsAsErrors bool `json:"warnings_as_errors"`

	// OptimizationsEnabled indicates an optimization flag was in effect.
	OptimizationsEnabled bool `json:"optimizations_enabled"`

	// UsesDebugCRuntime indicates the debug C runtime (/MDd or /MTd)
	// was selected.
	UsesDebugCRuntime bool `json:"uses_debug_c_runtime"`

	// EliminateDuplicateStrings indicates /GF was in effect, either
	// directly or implied by /O1 or /O2.
	EliminateDuplicateStrings bool `json:"eliminate_duplicate_strings"`

	// WholeProgramOptimization indicates /GL was in effect.
	WholeProgramOptimization bool `json:"whole_program_optimization"`

	// ExplicitlyDisabledWarnings lists the warning numbers whose final
	// resolved state is disabled, ascending, no duplicates.
	ExplicitlyDisabledWarnings []int `json:"explicitly_disabled_warnings"`
}

// warningState is the most recent explicit per-warning directive seen
// for a warning number. The per-level states use the level as their
// numeric value, so the level of stateLevel1..stateLevel4 is int(state).
type warningState int

const (
	stateLevel1 warningState = 1 + iota
	stateLevel2
	stateLevel3
	stateLevel4
	stateAsError
	stateOnce
	stateDisabled
)

// IsOption reports whether tok is an option flag rather than a
// positional argument. cl.exe accepts both / and - as introducers.
func IsOption(tok string) bool {
	return len(tok) > 0 && (tok[0] == '/' || tok[0] == '-')
}

// ParseCommandLine resolves a recorded command line into a CommandLine.
// It never fails: unrecognized flags, malformed per-warning directives
// and positional arguments are skipped, and an empty command line
// resolves to all defaults. Later flags override earlier ones within
// each flag family, matching cl.exe's own resolution.
func ParseCommandLine(raw string) CommandLine {
	c := CommandLine{Raw: raw}
	if raw == "" {
		return c
	}
	args, err := winargs.Split(raw)
	if err != nil {
		// Can only happen via the CommandLineToArgv syscall.
		// An unsplittable command line has no resolvable flags.
		return c
	}
	overrides := make(map[int]warningState)
	for _, arg := range args {
		if !IsOption(arg) {
			continue
		}
		// Exact-form dispatch. /W4 and /w44996 are different flags,
		// so matching is on the whole token, never on containment.
		switch body := arg[1:]; body {
		case "w":
			c.WarningLevel = 0
		case "W0", "W1", "W2", "W3", "W4":
			c.WarningLevel = int(body[1] - '0')
		case "WX":
			c.WarningsAsErrors = true
		case "WX-":
			c.WarningsAsErrors = false
		case "Wall":
			// displays all /W4 warnings plus ones that are off by default.
			c.WarningLevel = 4
		case "O1", "O2":
			// /O1 and /O2 imply /GF.
			c.OptimizationsEnabled = true
			c.EliminateDuplicateStrings = true
		case "Og", "Oi", "Ot", "Ox":
			c.OptimizationsEnabled = true
		case "Od":
			c.OptimizationsEnabled = false
		case "MD", "MT":
			c.UsesDebugCRuntime = false
		case "MDd", "MTd":
			c.UsesDebugCRuntime = true
		case "GL":
			c.WholeProgramOptimization = true
		case "GL-":
			c.WholeProgramOptimization = false
		case "GF":
			c.EliminateDuplicateStrings = true
		default:
			parseWarningOverride(body, overrides)
		}
	}
	c.ExplicitlyDisabledWarnings = disabledWarnings(overrides, c.WarningLevel)
	return c
}

// parseWarningOverride records a per-warning directive (/wdNNNN /weNNNN
// /woNNNN /w1NNNN../w4NNNN) in overrides. A later directive for the
// same warning number fully replaces the earlier one. Tokens whose
// trailing text is not a valid warning number are ignored.
func parseWarningOverride(body string, overrides map[int]warningState) {
	if len(body) < 3 || body[0] != 'w' {
		return
	}
	var state warningState
	switch body[1] {
	case 'd':
		state = stateDisabled
	case 'e':
		state = stateAsError
	case 'o':
		state = stateOnce
	case '1', '2', '3', '4':
		state = warningState(body[1] - '0')
	default:
		return
	}
	num, err := strconv.Atoi(body[2:])
	if err != nil || num < 0 {
		return
	}
	overrides[num] = state
}

// disabledWarnings resolves the override map into the sorted list of
// warning numbers whose final state is disabled. A per-level override
// compares against the final global warning level, not the level in
// effect where the directive appeared. /we and /wo count as enabled;
// cl.exe conflates those markers with enablement and downstream checks
// depend on reproducing that.
func disabledWarnings(overrides map[int]warningState, warningLevel int) []int {
	var disabled []int
	for num, state := range overrides {
		enabled := true
		switch state {
		case stateAsError, stateOnce:
		case stateDisabled:
			enabled = false
		case stateLevel1, stateLevel2, stateLevel3, stateLevel4:
			enabled = warningLevel >= int(state)
		}
		if !enabled {
			disabled = append(disabled, num)
		}
	}
	slices.Sort(disabled)
	return disabled
}

// WarningExplicitlyDisabled reports whether warning number num resolved
// to disabled for this compilation unit.
func (c CommandLine) WarningExplicitlyDisabled(num int) bool {
	_, ok := slices.BinarySearch(c.ExplicitlyDisabledWarnings, num)
	return ok
}
