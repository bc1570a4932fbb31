package cli

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/urfave/cli/v2"
)

var execCommand = exec.Command

// runProject runs the current project's main package in the given mode. The
// project binary owns the controller registry and route table, so the vane
// binary delegates to it.
func runProject(mode string) error {
	if _, err := os.Stat("go.mod"); err != nil {
		return fmt.Errorf("no go.mod found: run this inside a Vane project (or `vane init` to create one)")
	}

	cmd := execCommand("go", "run", ".", mode)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the project in dev mode (no caching, live reload)",
	Action: func(c *cli.Context) error {
		return runProject("dev")
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the project in production mode (caching on by default)",
	Action: func(c *cli.Context) error {
		return runProject("prod")
	},
}

var RoutesCommand = &cli.Command{
	Name:  "routes",
	Usage: "Print the project's route table",
	Action: func(c *cli.Context) error {
		return runProject("routes")
	},
}
