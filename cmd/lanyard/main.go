package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/lanyard/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts app.Options

	flagSet := pflag.NewFlagSet("lanyard", pflag.ContinueOnError)
	flagSet.StringVar(&opts.ConfigPath, "config", "", "override config path (default ~/.config/lanyard/config.toml)")
	flagSet.StringVar(&opts.Conference, "conference", "", "open this conference id instead of the saved one")
	flagSet.BoolVar(&opts.Headless, "headless", false, "load once, print a summary and exit")
	flagSet.StringVar(&opts.Login, "login", "", "sign in with this email as a self-issued identity")
	flagSet.BoolVar(&opts.RequestReload, "request-reload", false, "ask a running lanyard to refetch sessions and speakers")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  lanyard [flags]\n\nFlags:\n%s", flagSet.FlagUsages())
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "lanyard: %v\n", err)
		return 2
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "lanyard: unexpected argument: %s\n", rest[0])
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "lanyard: %v\n", err)
		return 1
	}
	return 0
}
