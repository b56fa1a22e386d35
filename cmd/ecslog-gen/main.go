package main

// `ecslog-gen` emits one synthetic ecs-logging record to stdout, with a
// message of a controllable length. Handy for exercising log tooling
// against long lines:
//
//	ecslog-gen 100000 | ecslog

import (
	"fmt"
	"io"
	"os"

	"github.com/tinytelemetry/ecslog/internal/genlog"
)

func emit(args []string, out io.Writer) error {
	n := genlog.DefaultMessageLen
	if len(args) > 0 {
		n = genlog.ParseMessageLen(args[0])
	}
	_, err := fmt.Fprintln(out, genlog.Record(n))
	return err
}

func main() {
	if err := emit(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ecslog-gen: error: %s\n", err)
		os.Exit(1)
	}
}
