package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/waabox/devopswatch/internal/cli"
)

// Set at build time via -ldflags "-X main.version=x.y.z -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "devopswatch: %v\n", err)
	}
	os.Exit(cli.ExitCodeForError(err))
}
