// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package winargs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	for _, tc := range []struct {
		name    string
		cmdline string
		want    []string
	}{
		{
			name:    "empty",
			cmdline: "",
			want:    nil,
		},
		{
			name:    "simple",
			cmdline: `..\..\third_party\llvm-build\Release+Asserts\bin\clang-cl.exe /c foo.cc`,
			want: []string{
				`..\..\third_party\llvm-build\Release+Asserts\bin\clang-cl.exe`,
				"/c",
				"foo.cc",
			},
		},
		{
			name:    "quoted_program_name",
			cmdline: `"C:\Program Files\MSVC\bin\cl.exe" /c /W3 foo.cpp`,
			want: []string{
				`C:\Program Files\MSVC\bin\cl.exe`,
				"/c",
				"/W3",
				"foo.cpp",
			},
		},
		{
			name:    "whitespace_runs",
			cmdline: "cl.exe  /c \t /W4   foo.cpp ",
			want: []string{
				"cl.exe",
				"/c",
				"/W4",
				"foo.cpp",
			},
		},
		{
			name:    "quoted_argument",
			cmdline: `cl.exe /c "a b.cpp"`,
			want: []string{
				"cl.exe",
				"/c",
				"a b.cpp",
			},
		},
		{
			name:    "quote_in_the_middle",
			cmdline: `cl.exe /DVALUE="a b" foo.cpp`,
			want: []string{
				"cl.exe",
				"/DVALUE=a b",
				"foo.cpp",
			},
		},
		{
			name:    "empty_argument",
			cmdline: `cl.exe "" foo.cpp`,
			want: []string{
				"cl.exe",
				"",
				"foo.cpp",
			},
		},
		{
			name:    "escaped_quote",
			cmdline: `cl.exe /DNAME=\"x\" foo.cpp`,
			want: []string{
				"cl.exe",
				`/DNAME="x"`,
				"foo.cpp",
			},
		},
		{
			name:    "backslashes_not_before_quote",
			cmdline: `cl.exe /Ic:\include\\sub foo.cpp`,
			want: []string{
				"cl.exe",
				`/Ic:\include\\sub`,
				"foo.cpp",
			},
		},
		{
			name:    "even_backslashes_before_quote",
			cmdline: `cl.exe a\\"b c"`,
			want: []string{
				"cl.exe",
				`a\b c`,
			},
		},
		{
			name:    "odd_backslashes_before_quote",
			cmdline: `cl.exe a\\\"b`,
			want: []string{
				"cl.exe",
				`a\"b`,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Split(tc.cmdline)
			if err != nil {
				t.Fatalf("Split(%q)=%q, %v; want nil err", tc.cmdline, got, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Split(%q); diff -want +got:\n%s", tc.cmdline, diff)
			}
		})
	}
}
