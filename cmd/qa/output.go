package main

import (
	"fmt"
	"io"
)

// printOK prints a success line.
//
//	name = "" → "  ✓  msg"
//	name set  → "  ✓  [name] msg"
func printOK(w io.Writer, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  ✓  %s\n", msg)
	} else {
		fmt.Fprintf(w, "  ✓  [%s] %s\n", name, msg)
	}
}

// printWarn prints a warning line.
func printWarn(w io.Writer, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  ⚠  %s\n", msg)
	} else {
		fmt.Fprintf(w, "  ⚠  [%s] %s\n", name, msg)
	}
}

// printSkip prints a skipped line.
func printSkip(w io.Writer, name, msg string) {
	if name == "" {
		fmt.Fprintf(w, "  ○  %s\n", msg)
	} else {
		fmt.Fprintf(w, "  ○  [%s] %s\n", name, msg)
	}
}
