// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clog_test is a test for clog package.
package clog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"cloud.google.com/go/logging"

	"go.chromium.org/infra/build/compilecheck/o11y/clog"
)

func testFormatter(e logging.Entry) string {
	id := e.Labels["id"]

	if id == "" {
		return fmt.Sprintf("%v", e.Payload)
	}
	return fmt.Sprintf("%s %v", id, e.Payload)
}

func Test(t *testing.T) {
	ctx := context.Background()

	l := clog.FromContext(ctx)
	defer l.Close()

	clog.Infof(ctx, "Info")
	clog.Warningf(ctx, "Warning")
	clog.Errorf(ctx, "Error")

	l.Formatter = testFormatter

	var wg sync.WaitGroup
	for _, id := range []string{"id1", "id2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx := clog.NewContext(ctx, l.WithLabels(map[string]string{"id": id}))

			clog.Infof(cctx, "Child Info")
			clog.Warningf(cctx, "Child Warning")
			clog.Errorf(cctx, "Child Error")
		}()
	}
	wg.Wait()
}
