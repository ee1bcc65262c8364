// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package analyze

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/compilecheck/toolsupport/msvcutil"
)

func TestParseCompDB(t *testing.T) {
	buf := []byte(`[
  {
    "directory": "C:\\b\\out",
    "command": "cl.exe /c /W3 /wd4996 ..\\..\\base\\file.cc",
    "file": "../../base/file.cc"
  },
  {
    "directory": "C:\\b\\out",
    "arguments": ["cl.exe", "/c", "..\\..\\base\\other.cc"],
    "file": "../../base/other.cc"
  },
  {
    "directory": "C:\\b\\out",
    "command": "cl.exe /c /W4 ..\\..\\base\\third.cc",
    "file": "../../base/third.cc"
  }
]`)
	got, err := parseCompDB(buf)
	if err != nil {
		t.Fatalf("parseCompDB=%v, %v; want nil err", got, err)
	}
	want := []record{
		{
			File:        "../../base/file.cc",
			CommandLine: msvcutil.CommandLine{Raw: `cl.exe /c /W3 /wd4996 ..\..\base\file.cc`},
		},
		{
			File:        "../../base/third.cc",
			CommandLine: msvcutil.CommandLine{Raw: `cl.exe /c /W4 ..\..\base\third.cc`},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseCompDB; diff -want +got:\n%s", diff)
	}
}

func TestParseCompDB_Error(t *testing.T) {
	if got, err := parseCompDB([]byte(`{"command": "cl.exe"}`)); err == nil {
		t.Errorf("parseCompDB=%v, %v; want err", got, err)
	}
}

func TestFirstToken(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want string
	}{
		{raw: "cl.exe /c foo.cpp", want: "cl.exe"},
		{raw: "  cl.exe /c", want: "cl.exe"},
		{raw: "", want: ""},
	} {
		if got := firstToken(tc.raw); got != tc.want {
			t.Errorf("firstToken(%q)=%q; want %q", tc.raw, got, tc.want)
		}
	}
}
