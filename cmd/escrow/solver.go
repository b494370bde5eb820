package main

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"github.com/urfave/cli/v2"
)

var solverIdFlag = &cli.StringFlag{
	Name:     "id",
	Usage:    "the account of the solver",
	Required: true,
}

var (
	solver = cli.Command{
		Name:        "solver",
		Usage:       "manage the registry of solvers allowed to execute orders",
		Subcommands: []*cli.Command{solverAddCmd, solverRemoveCmd, solverListCmd},
	}

	solverAddCmd = &cli.Command{
		Name:   "add",
		Usage:  "authorize a solver (owner only)",
		Flags:  []cli.Flag{solverIdFlag},
		Action: addSolverAction,
	}
	solverRemoveCmd = &cli.Command{
		Name:   "remove",
		Usage:  "revoke a solver (owner only)",
		Flags:  []cli.Flag{solverIdFlag},
		Action: removeSolverAction,
	}
	solverListCmd = &cli.Command{
		Name:   "list",
		Usage:  "list all authorized solvers",
		Action: listSolversAction,
	}
)

func addSolverAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.AddSolver(
		context.Background(),
		&escrowrpc.AddSolverRequest{SolverId: ctx.String("id")},
	); err != nil {
		return err
	}

	return printSuccess("solver added")
}

func removeSolverAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := client.RemoveSolver(
		context.Background(),
		&escrowrpc.RemoveSolverRequest{SolverId: ctx.String("id")},
	); err != nil {
		return err
	}

	return printSuccess("solver removed")
}

func listSolversAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ListSolvers(
		context.Background(), &escrowrpc.ListSolversRequest{},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func printSuccess(msg string) error {
	printRespJSON(map[string]string{"result": msg})
	return nil
}
