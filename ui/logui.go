// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// LogUI is a log-based UI, used when stdout is not a terminal.
type LogUI struct{}

// Infof reports via the logger.
func (LogUI) Infof(format string, args ...any) {
	log.Helper()
	log.Info(fmt.Sprintf(format, args...))
}

// Warningf reports via the logger.
func (LogUI) Warningf(format string, args ...any) {
	log.Helper()
	log.Warn(fmt.Sprintf(format, args...))
}

// Errorf reports via the logger.
func (LogUI) Errorf(format string, args ...any) {
	log.Helper()
	log.Error(fmt.Sprintf(format, args...))
}
