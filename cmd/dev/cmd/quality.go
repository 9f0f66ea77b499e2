package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// corePackages are the suites that run the protocol against the simulated
// board; they are the ones worth running under the race detector.
var corePackages = []string{
	"./protocol/...",
	"./sim/...",
	"./board/...",
	"./environment/...",
	"./air/...",
	"./motion/...",
	"./ir/...",
	"./display/...",
}

// smokeCommands are CLI invocations every build must answer on the
// simulated board.
var smokeCommands = [][]string{
	{"version"},
	{"digital", "read", "4"},
	{"analog", "read", "0"},
	{"temperature", "0"},
	{"ultrasonic", "4"},
	{"accelerometer"},
	{"rtc"},
	{"ledbar", "get"},
}

func TestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run tests",
		Long:  "Run the whole test suite, or the protocol, simulator and driver suites with the race detector when --race is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			race, err := cmd.Flags().GetBool("race")
			if err != nil {
				return fmt.Errorf("could not get race flag: %w", err)
			}
			if !race {
				if err := test.Test(); err != nil {
					return fmt.Errorf("failed to run tests: %w", err)
				}
				return nil
			}
			pkgs := corePackages
			if len(args) > 0 {
				pkgs = args
			}
			goArgs := append([]string{"test", "-race", "-count=1"}, pkgs...)
			if err := goCmd(goArgs...); err != nil {
				return fmt.Errorf("failed to run race tests: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().Bool("race", false, "run the core suites with the race detector")
	return cmd
}

func LintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Run linting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := test.Lint(); err != nil {
				return fmt.Errorf("failed to run linting: %w", err)
			}
			return nil
		},
	}
	return cmd
}

func SmokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Run the grovepi CLI against the simulated board",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, command := range smokeCommands {
				goArgs := append([]string{"run", "./cmd/grovepi", "--adapter", "sim"}, command...)
				if err := goCmd(goArgs...); err != nil {
					slog.Error("smoke command failed", "command", command, "error", err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d smoke commands failed", failed, len(smokeCommands))
			}
			slog.Info("smoke commands passed", "count", len(smokeCommands))
			return nil
		},
	}
	return cmd
}

func goCmd(args ...string) error {
	slog.Debug("running go", "args", args)
	c := exec.Command("go", args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
