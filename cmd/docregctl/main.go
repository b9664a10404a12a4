// docregctl is a small command line client for the register service.
// It keeps the login session in a local file so consecutive invocations
// stay authenticated.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/patric-chuzhbe/docreg/internal/client"
	"github.com/patric-chuzhbe/docreg/internal/config"
	"github.com/patric-chuzhbe/docreg/internal/models"
	"github.com/patric-chuzhbe/docreg/internal/session"
)

const usage = `usage: docregctl <command> [arguments]

commands:
	login <username>           authenticate and store the session
	logout                     drop the session
	whoami                     show the logged-in user
	masters <kind>             list a master collection (offices|modes|entities|couriers)
	registers <inward|outward> list a register
	search [-q text] [-status s] [-from date] [-to date]
	                           search both registers
`

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}

	cfg, err := config.New(config.WithDisableFlagsParsing(true))
	if err != nil {
		return err
	}

	sessions := session.New(cfg.SessionFileName)
	sessions.Restore()

	theClient := client.New(cfg.ServerBaseURL, sessions)
	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		if len(os.Args) < 3 {
			return errors.New("login requires a username")
		}
		usr, err := theClient.Login(ctx, os.Args[2])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", usr.Name, usr.Role)

		return nil

	case "logout":
		if err := theClient.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")

		return nil

	case "whoami":
		usr, err := theClient.Whoami(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s), role %s\n", usr.Name, usr.Username, usr.Role)

		return nil

	case "masters":
		if len(os.Args) < 3 {
			return errors.New("masters requires a kind")
		}
		records, err := theClient.ListMasters(ctx, models.MasterKind(os.Args[2]))
		if err != nil {
			return err
		}

		return printJSON(records)

	case "registers":
		if len(os.Args) < 3 {
			return errors.New("registers requires inward or outward")
		}
		switch os.Args[2] {
		case "inward":
			entries, err := theClient.ListInwardRegister(ctx, models.EntryFilter{})
			if err != nil {
				return err
			}

			return printJSON(entries)
		case "outward":
			entries, err := theClient.ListOutwardRegister(ctx, models.EntryFilter{})
			if err != nil {
				return err
			}

			return printJSON(entries)
		}

		return fmt.Errorf("unknown register %q", os.Args[2])

	case "search":
		searchFlags := flag.NewFlagSet("search", flag.ExitOnError)
		query := searchFlags.String("q", "", "keyword to search for")
		status := searchFlags.String("status", "", "delivery status filter")
		dateFrom := searchFlags.String("from", "", "start date (YYYY-MM-DD)")
		dateTo := searchFlags.String("to", "", "end date (YYYY-MM-DD)")
		if err := searchFlags.Parse(os.Args[2:]); err != nil {
			return err
		}

		summaries, err := theClient.Search(ctx, models.EntryFilter{
			Query:    *query,
			Status:   models.DeliveryStatus(*status),
			DateFrom: *dateFrom,
			DateTo:   *dateTo,
		})
		if err != nil {
			return err
		}

		return printJSON(summaries)
	}

	fmt.Fprint(os.Stderr, usage)

	return fmt.Errorf("unknown command %q", os.Args[1])
}

func printJSON(value interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "\t")

	return encoder.Encode(value)
}
