package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "geolens-cli",
		Usage: "Audit web pages for Generative Engine Optimization without running the server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "output format: text, json or yaml"},
			&cli.BoolFlag{Name: "browser", Usage: "enable the headless Chrome engines (overrides GEO_BROWSER_ENABLED)"},
			&cli.BoolFlag{Name: "no-lighthouse", Usage: "skip the Lighthouse performance audit"},
			&cli.BoolFlag{Name: "allow-private", Usage: "allow loopback and private-network hosts"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			{
				Name:      "audit",
				Usage:     "Score a page and list improvement suggestions",
				ArgsUsage: "<url>",
				Action:    auditAction,
			},
			{
				Name:      "content",
				Usage:     "Print the readable content of a page as Markdown",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "selector", Aliases: []string{"s"}, Usage: "CSS selector narrowing the page before extraction"},
				},
				Action: contentAction,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
