package main

import (
	"fmt"

	"github.com/tdex-network/tdex-escrow/pkg/auth"
	"github.com/urfave/cli/v2"
)

var token = cli.Command{
	Name:  "token",
	Usage: "mint a bearer token for an account with the daemon's auth secret",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account identified by the token",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the auth secret of the daemon (ESCROW_AUTH_SECRET)",
			EnvVars:  []string{"ESCROW_AUTH_SECRET"},
			Required: true,
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "validity of the token, 0 for no expiration",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "store the token in the local state",
		},
	},
	Action: tokenAction,
}

func tokenAction(ctx *cli.Context) error {
	tk, err := auth.NewToken(
		[]byte(ctx.String("secret")), ctx.String("account"), ctx.Duration("ttl"),
	)
	if err != nil {
		return err
	}

	if ctx.Bool("save") {
		if err := setState(map[string]string{"token": tk}); err != nil {
			return err
		}
	}

	fmt.Println(tk)
	return nil
}
