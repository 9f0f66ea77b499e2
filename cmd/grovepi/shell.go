package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/cmd/grovepi/console"
)

var shellCmd = cli.Command{
	Name:  "shell",
	Usage: "run commands interactively over a single open bus",
	Action: func(c *cli.Context) error {
		if _, nested := c.Context.Value(sessionKey{}).(*session); nested {
			return console.Exit(1, "already in a shell")
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Fail("configuration error", err)
		}
		s, err := openSession(cfg)
		if err != nil {
			return console.Fail("could not open bus", err)
		}
		ctx := context.WithValue(c.Context, sessionKey{}, s)
		defer func() {
			if err := s.Close(ctx); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}()

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          console.Cyan("grovepi> "),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return console.Fail("terminal error", err)
		}
		defer func() { _ = rl.Close() }()

		prefix := []string{c.App.Name, "--log-level", cfg.LogLevel}
		if c.Bool("verbose") {
			prefix = append(prefix, "--verbose")
		}
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return console.Fail("terminal error", err)
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "exit", "quit":
				return nil
			case "stats":
				if err := console.YAML(s.transport.Stats()); err != nil {
					console.Errorf("%s", console.Red(err))
				}
				continue
			}
			args := append(append([]string{}, prefix...), fields...)
			if err := c.App.RunContext(ctx, args); err != nil {
				console.Errorf("%s", err)
			}
		}
	},
}
