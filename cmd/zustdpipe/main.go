// Command zustdpipe is the CLI entry point: validate checks an application
// document and prints its shape; run executes one named job against it.
// Both map onto exit code 0 on success, 1 on any error, per the external
// interface this specification names but treats as a collaborator.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/ZuInnoTe/ZuStDPipe/apps"
	"github.com/ZuInnoTe/ZuStDPipe/jobs"
	"github.com/ZuInnoTe/ZuStDPipe/modules"
	"github.com/ZuInnoTe/ZuStDPipe/modules/library"
	"github.com/ZuInnoTe/ZuStDPipe/modules/library/wasm"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "zustdp-cli",
		Usage: "command line options for zustdp-cli",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "application-definition-file",
				Required: true,
				Usage:    "path of the application definition YAML file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "parse and print the shape of an application definition",
				Action: runValidate,
			},
			{
				Name:  "run",
				Usage: "run a named job from an application definition",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "name of the job to run",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRun(ctx, c, log)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func runValidate(_ context.Context, c *cli.Command) error {
	path := c.String("application-definition-file")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open file: %s", path)
	}
	defer f.Close()

	def, appErr := apps.Load(f)
	if appErr != nil {
		return appErr
	}

	fmt.Printf("Application name: %s\n", def.General.Name)
	fmt.Printf("Number of pipelines: %d\n", len(def.Pipelines))
	for name, pdef := range def.Pipelines {
		fmt.Printf("Pipeline name: %s\n", name)
		for _, stage := range pdef.Process {
			for processName := range stage {
				fmt.Printf("Process name: %s\n", processName)
			}
		}
	}
	return nil
}

func runRun(_ context.Context, c *cli.Command, log zerolog.Logger) error {
	path := c.String("application-definition-file")
	jobName := c.String("name")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open file: %s", path)
	}
	defer f.Close()

	def, appErr := apps.Load(f)
	if appErr != nil {
		return appErr
	}

	fmt.Printf("Application name: %s\n", def.General.Name)
	fmt.Printf("Trying to run %s\n", jobName)

	moduleManager, modErr := modules.NewManager(def.Modules, func() (library.Manager, error) {
		return wasm.NewLibraryManager(log)
	}, modules.PathExists)
	if modErr != nil {
		return modErr
	}

	jobDef, ok := def.Jobs[jobName]
	if !ok {
		return fmt.Errorf("job %s not found", jobName)
	}

	runner := jobs.NewRunner(moduleManager, log)
	jobID, runErr := runner.RunJob(def.Pipelines, jobDef)
	if runErr != nil {
		return runErr
	}

	fmt.Printf("Job id: %s\n", jobID)
	return nil
}
