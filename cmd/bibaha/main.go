package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bibaha",
		Usage: "Marriage registration application and review service",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			nanoidCommand,
			certnoCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
