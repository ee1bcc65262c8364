// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ui provides user interface functionalities.
package ui

import (
	"os"

	"golang.org/x/term"
)

// UI is a user interface.
type UI interface {
	// Infof reports a message to the user.
	Infof(format string, args ...any)
	// Warningf reports a warning to the user.
	Warningf(format string, args ...any)
	// Errorf reports an error to the user.
	Errorf(format string, args ...any)
}

// Default holds the default UI interface.
// Making changes to this variable after init is undefined behavior.
var Default UI

func init() {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		Default = TermUI{}
	} else {
		Default = LogUI{}
	}
}

// IsTerminal returns whether currently using a terminal UI.
func IsTerminal() bool {
	_, ok := Default.(TermUI)
	return ok
}
