package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gophertribe/devtool/build"
)

// piArch is the GOARCH of the 32-bit Raspberry Pi OS images the GrovePi is
// usually stacked on.
const piArch = "arm"

func BuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the grovepi command line tool",
		Long: `Build the grovepi command line tool.

Native builds run go build with cgo enabled (the MCP2221 adapter needs hidapi).
Other targets are built in the gobuild container. --pi is a shortcut for a
linux/arm binary to copy onto the Raspberry Pi carrying the GrovePi.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			targetOS := cmd.Flag("os").Value.String()
			targetArch := cmd.Flag("arch").Value.String()
			version := cmd.Flag("version").Value.String()
			output := cmd.Flag("output").Value.String()
			crossOS := cmd.Flag("cross-os").Value.String()
			crossArch := cmd.Flag("cross-arch").Value.String()
			pi, err := cmd.Flags().GetBool("pi")
			if err != nil {
				return fmt.Errorf("could not get pi flag: %w", err)
			}
			if pi {
				crossOS, crossArch = "linux", piArch
			}

			if targetOS != runtime.GOOS || targetArch != runtime.GOARCH {
				noCache, err := cmd.Flags().GetBool("no-cache")
				if err != nil {
					return fmt.Errorf("could not get no-cache flag: %w", err)
				}
				slog.Info("building in container", "os", targetOS, "arch", targetArch)
				return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", targetOS, targetArch), []string{"build", "--version", version, "--output", output, "--cross-os", crossOS, "--cross-arch", crossArch}, build.DockerBuildOpts{
					NoCache: noCache,
					Image:   "gophertribe/gobuild:1.25-bookworm",
				})
			}
			if crossOS != "" && crossArch != "" {
				targetOS, targetArch = crossOS, crossArch
			}
			slog.Info("building", "output", output, "os", targetOS, "arch", targetArch, "version", version)
			return build.GoBuild(output, "./cmd/grovepi", build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: "main",
				EnableCgo:     true,
				Arch:          targetArch,
				OS:            targetOS,
			})
		},
	}
	cmd.Flags().Bool("no-cache", false, "do not use cache when building in the container")
	cmd.Flags().Bool("pi", false, "cross-compile for linux/arm")
	cmd.Flags().String("version", "latest", "version injected into the binary")
	cmd.Flags().String("output", "dist/grovepi", "output binary path")
	cmd.Flags().String("os", runtime.GOOS, "os to build for")
	cmd.Flags().String("arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().String("cross-os", "", "os to cross-compile for")
	cmd.Flags().String("cross-arch", "", "arch to cross-compile for")
	return cmd
}
