// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !windows

// Package winargs splits Windows command lines into argv.
package winargs

import "strings"

// Split splits a Windows command line the way CommandLineToArgvW does,
// so command lines recorded on Windows can be analyzed on any host.
// It never fails on this implementation; the error return matches the
// syscall-backed implementation used on Windows.
func Split(cmdline string) ([]string, error) {
	i := skipSpace(cmdline, 0)
	if i == len(cmdline) {
		return nil, nil
	}
	// argv[0] is the program name. It has no escape semantics:
	// a leading quote spans to the next quote, otherwise the token
	// runs to the first whitespace.
	var args []string
	var sb strings.Builder
	if cmdline[i] == '"' {
		i++
		for i < len(cmdline) && cmdline[i] != '"' {
			sb.WriteByte(cmdline[i])
			i++
		}
		if i < len(cmdline) {
			i++
		}
	} else {
		for i < len(cmdline) && cmdline[i] != ' ' && cmdline[i] != '\t' {
			sb.WriteByte(cmdline[i])
			i++
		}
	}
	args = append(args, sb.String())
	for {
		i = skipSpace(cmdline, i)
		if i == len(cmdline) {
			break
		}
		var arg string
		arg, i = parseArg(cmdline, i)
		args = append(args, arg)
	}
	return args, nil
}

func skipSpace(cmdline string, i int) int {
	for i < len(cmdline) && (cmdline[i] == ' ' || cmdline[i] == '\t') {
		i++
	}
	return i
}

// parseArg consumes one argument starting at non-space position i and
// returns it with the position past its end. Rules per the msvcrt
// parser: 2n backslashes before a quote yield n backslashes and the
// quote toggles quoting; 2n+1 backslashes before a quote yield n
// backslashes and a literal quote; backslashes elsewhere are literal;
// "" inside a quoted span is a literal quote.
func parseArg(cmdline string, i int) (string, int) {
	var sb strings.Builder
	inquote := false
	for i < len(cmdline) {
		switch ch := cmdline[i]; ch {
		case '\\':
			nbs := 0
			for i < len(cmdline) && cmdline[i] == '\\' {
				nbs++
				i++
			}
			if i < len(cmdline) && cmdline[i] == '"' {
				sb.WriteString(strings.Repeat(`\`, nbs/2))
				if nbs%2 == 1 {
					// escaped quote
					sb.WriteByte('"')
					i++
				}
				// even: the quote is processed on the next pass.
			} else {
				sb.WriteString(strings.Repeat(`\`, nbs))
			}
		case '"':
			if inquote && i+1 < len(cmdline) && cmdline[i+1] == '"' {
				sb.WriteByte('"')
				i += 2
				continue
			}
			inquote = !inquote
			i++
		case ' ', '\t':
			if !inquote {
				return sb.String(), i
			}
			sb.WriteByte(ch)
			i++
		default:
			sb.WriteByte(ch)
			i++
		}
	}
	return sb.String(), i
}
