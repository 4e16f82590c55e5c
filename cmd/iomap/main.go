// Command iomap converts documents between JSON, YAML, TOML, XML, INI,
// query string, Base64 and CSV.
//
// Usage:
//
//	iomap convert <input> --to <format> [--from <format>] [--out path]
//	iomap detect <input>
//	iomap inspect <input>
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/yacchi/iomap/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
