package main

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"github.com/urfave/cli/v2"
)

var (
	ledger = cli.Command{
		Name:  "ledger",
		Usage: "inspect the escrow ledger",
		Subcommands: []*cli.Command{
			ledgerTotalCmd, ledgerTransfersCmd, ledgerStatsCmd,
		},
	}

	ledgerTotalCmd = &cli.Command{
		Name:   "total",
		Usage:  "get the sum of all deposits held by the escrow",
		Action: totalDepositsAction,
	}
	ledgerTransfersCmd = &cli.Command{
		Name:  "transfers",
		Usage: "list the requested payouts, newest first",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "page",
				Usage: "the number of the page to show",
			},
			&cli.Int64Flag{
				Name:  "page_size",
				Usage: "the number of transfers per page",
			},
		},
		Action: listTransfersAction,
	}
	ledgerStatsCmd = &cli.Command{
		Name:   "stats",
		Usage:  "get the ledger counters",
		Action: statsAction,
	}
)

func totalDepositsAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.GetTotalDeposits(
		context.Background(), &escrowrpc.GetTotalDepositsRequest{},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listTransfersAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ListTransfers(
		context.Background(),
		&escrowrpc.ListTransfersRequest{Page: pageFromFlags(ctx)},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func statsAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.GetStats(context.Background(), &escrowrpc.GetStatsRequest{})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
