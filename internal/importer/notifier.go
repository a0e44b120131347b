// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package importer

import (
	"fmt"
	"io"
)

// Notifier delivers user-visible status messages. The four kinds mirror the
// host UI's notice levels; messages are human-readable only, no codes.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// WriterNotifier renders notices as prefixed lines, for CLI use.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Info(msg string)    { fmt.Fprintf(n.W, "%s\n", msg) }
func (n WriterNotifier) Success(msg string) { fmt.Fprintf(n.W, "ok: %s\n", msg) }
func (n WriterNotifier) Warn(msg string)    { fmt.Fprintf(n.W, "warning: %s\n", msg) }
func (n WriterNotifier) Error(msg string)   { fmt.Fprintf(n.W, "error: %s\n", msg) }
