package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/cmd/grovepi/console"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := newApp()
	err := app.Run(args)
	if err != nil {
		_, _ = fmt.Fprint(os.Stderr, console.Format(err))
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			return exerr.ExitCode()
		}
		return 1
	}
	return 0
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "grovepi"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "talk to a GrovePi board and its Grove modules"
	app.Flags = globalFlags()
	app.Before = func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Fail("configuration error", err)
		}
		setupLogger(cfg.LogLevel, c.Bool("verbose"))
		return nil
	}
	// errors are reported by run and by the shell, never by exiting here
	app.ExitErrHandler = func(c *cli.Context, err error) {}
	app.Commands = cli.Commands{
		&versionCmd,
		&digitalCmd,
		&analogCmd,
		&modeCmd,
		&rtcCmd,
		&tempCmd,
		&dhtCmd,
		&ultrasonicCmd,
		&accelCmd,
		&encoderCmd,
		&flowCmd,
		&dustCmd,
		&irCmd,
		&ledBarCmd,
		&fourDigitCmd,
		&rgbCmd,
		&usbCmd,
		&mcp2221Cmd,
		&shellCmd,
	}
	return app
}

func setupLogger(level string, verbose bool) {
	charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	charm.SetColorProfile(termenv.TrueColor)
	lvl, err := chlog.ParseLevel(level)
	if err != nil {
		lvl = chlog.InfoLevel
	}
	charm.SetLevel(lvl)
	if verbose {
		charm.SetLevel(chlog.DebugLevel)
	}
	slog.SetDefault(slog.New(charm))
}
