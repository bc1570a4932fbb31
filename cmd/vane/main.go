package main

import (
	"log"
	"os"

	vanecli "github.com/go-vane/vane/cli"
	clilib "github.com/urfave/cli/v2"
)

func main() {
	app := &clilib.App{
		Name:  "vane",
		Usage: "A controller-first MVC web framework powered by Go",
		Commands: []*clilib.Command{
			vanecli.InitCommand,
			vanecli.DevCommand,
			vanecli.ProdCommand,
			vanecli.RoutesCommand,
			vanecli.CleanCommand,
			vanecli.CheckCommand,
			vanecli.InfoCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
