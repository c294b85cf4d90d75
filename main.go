package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/terminal"
)

func main() {
	t := terminal.Terminal{}

	app := &cli.App{
		Name:  "protrading",
		Usage: "simulated trading terminal: price feed, synthetic order book and order composition",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "pair",
				Usage: "trading pair to compose orders against (e.g. BTC-EUR)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "terminal",
				Usage:  "run the interactive dashboard",
				Action: t.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pair"},
				},
			},
			{
				Name:   "feed",
				Usage:  "run the headless price feed logger",
				Action: t.RunFeed,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pair"},
				},
			},
		},
		Action: t.Run,
	}

	if err := app.Run(os.Args); err != nil {
		helpers.Logger.Fatalln(err)
	}
}
