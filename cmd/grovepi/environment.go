package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/cmd/grovepi/console"
	"github.com/mklimuk/grovepi/environment"
)

var samplingFlags = []cli.Flag{
	&cli.IntFlag{
		Name:  "samples",
		Usage: "take this many readings and print their filtered mean",
		Value: 1,
	},
	&cli.DurationFlag{
		Name:  "interval",
		Usage: "pause between samples",
		Value: time.Second,
	},
	&cli.Float64Flag{
		Name:  "std-factor",
		Usage: "drop samples further than this many standard deviations from the mean",
		Value: environment.DefaultOutlierFactor,
	},
}

func sampled(ctx context.Context, c *cli.Context, sensor environment.TemperatureSensor) (float64, error) {
	if c.Int("samples") <= 1 {
		t, err := sensor.GetTemperature(ctx)
		return float64(t), err
	}
	values, err := environment.SampleTemperature(ctx, sensor, c.Int("samples"), c.Duration("interval"), c.Float64("std-factor"))
	if err != nil {
		return 0, err
	}
	return environment.Mean(values), nil
}

var tempCmd = cli.Command{
	Name:      "temperature",
	Aliases:   []string{"temp"},
	Usage:     "read the analog Grove temperature sensor",
	ArgsUsage: "<pin>",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "model",
			Usage: "sensor revision: 1.0, 1.1 or 1.2",
			Value: string(environment.ThermistorV10),
		},
	}, samplingFlags...),
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		pin, err := byteArg(c, 0, "pin")
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		model, err := environment.ParseThermistorModel(c.String("model"))
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		t, err := sampled(ctx, c, environment.NewThermistor(s.board, pin, model))
		if err != nil {
			return console.Fail("error getting temperature read", err)
		}
		console.PInfof(console.PictoThermometer, "%s°C", console.White(round2(t)))
		return nil
	}),
}

var dhtCmd = cli.Command{
	Name:      "dht",
	Usage:     "read a DHT temperature and humidity sensor",
	ArgsUsage: "<pin>",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "model",
			Usage: "dht11 (blue) or dht22 (white)",
			Value: "dht11",
		},
	}, samplingFlags...),
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		pin, err := byteArg(c, 0, "pin")
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		model, err := environment.ParseDHTModel(c.String("model"))
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		sensor := environment.NewDHT(s.transport, pin, model)
		if c.Int("samples") > 1 {
			t, err := sampled(ctx, c, sensor)
			if err != nil {
				return console.Fail("error getting temperature read", err)
			}
			console.PInfof(console.PictoThermometer, "%s°C", console.White(round2(t)))
			return nil
		}
		t, h, err := sensor.GetTempAndHum(ctx)
		if err != nil {
			return console.Fail("error getting temperature read", err)
		}
		console.PInfof(console.PictoThermometer, " %s°C", console.White(t))
		console.PInfof(console.PictoHumidity, "%s%%", console.White(h))
		return nil
	}),
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
