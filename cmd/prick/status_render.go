package main

import (
	"fmt"
	"strings"

	"prick/internal/scan"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	base := fmt.Sprintf("%-8s %s", statusText, label)
	if message != "" {
		base += "  " + message
	}
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "FAIL"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// renderVerification formats one verify outcome as a status line.
func renderVerification(v scan.Verification, colorize bool) string {
	switch v.Status {
	case scan.VerifyMatch:
		return renderStatusLine(v.Path, statusOK, "", colorize)
	case scan.VerifyMismatch:
		msg := fmt.Sprintf("fingerprint changed (expected %s, got %s)", shortHex(v.Expected), shortHex(v.Actual))
		if len(v.MismatchedStreams) > 0 {
			streams := make([]string, len(v.MismatchedStreams))
			for i, idx := range v.MismatchedStreams {
				streams[i] = fmt.Sprint(idx)
			}
			msg += "; streams " + strings.Join(streams, ",")
		}
		return renderStatusLine(v.Path, statusError, msg, colorize)
	case scan.VerifyMissing:
		return renderStatusLine(v.Path, statusError, "file missing", colorize)
	case scan.VerifyUnknown:
		return renderStatusLine(v.Path, statusWarn, "not in catalog", colorize)
	default:
		msg := "verification failed"
		if v.Err != nil {
			msg = v.Err.Error()
		}
		return renderStatusLine(v.Path, statusError, msg, colorize)
	}
}
