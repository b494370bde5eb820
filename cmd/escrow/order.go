package main

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"github.com/urfave/cli/v2"
)

var idFlag = &cli.StringFlag{
	Name:     "id",
	Usage:    "the id of the order",
	Required: true,
}

var (
	order = cli.Command{
		Name:  "order",
		Usage: "create, settle and inspect escrow orders",
		Subcommands: []*cli.Command{
			orderCreateCmd, orderExecuteCmd, orderCancelCmd, orderFailCmd,
			orderInfoCmd, orderListCmd,
		},
	}

	orderCreateCmd = &cli.Command{
		Name:   "create",
		Usage:  "lock funds of the caller into a new order",
		Flags:  []cli.Flag{idFlag, amountFlag},
		Action: createOrderAction,
	}
	orderExecuteCmd = &cli.Command{
		Name:  "execute",
		Usage: "execute a pending order as authorized solver",
		Flags: []cli.Flag{
			idFlag,
			amountFlag,
			&cli.StringFlag{
				Name:     "taker",
				Usage:    "the account receiving the order amount",
				Required: true,
			},
		},
		Action: executeOrderAction,
	}
	orderCancelCmd = &cli.Command{
		Name:   "cancel",
		Usage:  "cancel a pending order and refund the maker",
		Flags:  []cli.Flag{idFlag},
		Action: cancelOrderAction,
	}
	orderFailCmd = &cli.Command{
		Name:  "fail",
		Usage: "mark a pending order as failed (owner only)",
		Flags: []cli.Flag{
			idFlag,
			&cli.StringFlag{
				Name:  "reason",
				Usage: "why the order could not be settled",
			},
		},
		Action: failOrderAction,
	}
	orderInfoCmd = &cli.Command{
		Name:   "info",
		Usage:  "get info about an order",
		Flags:  []cli.Flag{idFlag},
		Action: orderInfoAction,
	}
	orderListCmd = &cli.Command{
		Name:  "list",
		Usage: "list orders, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "maker",
				Usage: "filter by maker",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "filter by status: pending, executed, cancelled or failed",
			},
			&cli.Int64Flag{
				Name:  "page",
				Usage: "the number of the page to show",
			},
			&cli.Int64Flag{
				Name:  "page_size",
				Usage: "the number of orders per page",
			},
		},
		Action: listOrdersAction,
	}
)

func createOrderAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.CreateOrder(
		context.Background(), &escrowrpc.CreateOrderRequest{
			OrderId: ctx.String("id"),
			Amount:  ctx.String("amount"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func executeOrderAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ExecuteOrder(
		context.Background(), &escrowrpc.ExecuteOrderRequest{
			OrderId: ctx.String("id"),
			Taker:   ctx.String("taker"),
			Amount:  ctx.String("amount"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func cancelOrderAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.CancelOrder(
		context.Background(),
		&escrowrpc.CancelOrderRequest{OrderId: ctx.String("id")},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func failOrderAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.FailOrder(
		context.Background(), &escrowrpc.FailOrderRequest{
			OrderId: ctx.String("id"),
			Reason:  ctx.String("reason"),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func orderInfoAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.GetOrder(
		context.Background(),
		&escrowrpc.GetOrderRequest{OrderId: ctx.String("id")},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listOrdersAction(ctx *cli.Context) error {
	client, cleanup, err := getEscrowClient()
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := client.ListOrders(
		context.Background(), &escrowrpc.ListOrdersRequest{
			Maker:  ctx.String("maker"),
			Status: ctx.String("status"),
			Page:   pageFromFlags(ctx),
		},
	)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func pageFromFlags(ctx *cli.Context) *escrowrpc.Page {
	number, size := ctx.Int64("page"), ctx.Int64("page_size")
	if number <= 0 && size <= 0 {
		return nil
	}
	return &escrowrpc.Page{Number: number, Size: size}
}
