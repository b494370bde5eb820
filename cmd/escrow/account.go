package main

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"github.com/urfave/cli/v2"
)

var amountFlag = &cli.StringFlag{
	Name:     "amount",
	Usage:    "the amount in base units of the native asset",
	Required: true,
}

var accountFlag = &cli.StringFlag{
	Name:     "account",
	Usage:    "the account to query",
	Required: true,
}

var (
	deposit = cli.Command{
		Name:   "deposit",
		Usage:  "credit the given amount to the caller's balance",
		Flags:  []cli.Flag{amountFlag},
		Action: depositAction,
	}
	withdraw = cli.Command{
		Name:   "withdraw",
		Usage:  "debit the given amount and request its payout to the caller",
		Flags:  []cli.Flag{amountFlag},
		Action: withdrawAction,
	}
	balance = cli.Command{
		Name:  "balance",
		Usage: "get the balance of an account",
		Flags: []cli.Flag{
			accountFlag,
			&cli.BoolFlag{
				Name:  "all",
				Usage: "list the balance of every token",
			},
		},
		Action: balanceAction,
	}
	authorized = cli.Command{
		Name:   "authorized",
		Usage:  "check whether an account is allowed to execute orders",
		Flags:  []cli.Flag{accountFlag},
		Action: authorizedAction,
	}
)

func depositAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.Deposit(context.Background(), &escrowrpc.DepositRequest{
		Amount: ctx.String("amount"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func withdrawAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.Withdraw(context.Background(), &escrowrpc.WithdrawRequest{
		Amount: ctx.String("amount"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func balanceAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	account := ctx.String("account")
	if ctx.Bool("all") {
		resp, err := client.GetBalances(
			context.Background(), &escrowrpc.GetBalancesRequest{Account: account},
		)
		if err != nil {
			return err
		}
		printRespJSON(resp)
		return nil
	}

	resp, err := client.GetBalance(
		context.Background(), &escrowrpc.GetBalanceRequest{Account: account},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func authorizedAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.IsAuthorized(
		context.Background(),
		&escrowrpc.IsAuthorizedRequest{Account: ctx.String("account")},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
