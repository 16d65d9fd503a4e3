// Command quickbill manages a product catalog and builds shareable bills
// from a local SQLite-backed key-value store.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/quickbill/quickbill/internal/bill"
	"github.com/quickbill/quickbill/internal/catalog"
	"github.com/quickbill/quickbill/internal/config"
	"github.com/quickbill/quickbill/internal/share"
	"github.com/quickbill/quickbill/internal/storage/sqlite"
	"github.com/quickbill/quickbill/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	app := &cli.App{
		Name:  "quickbill",
		Usage: "maintain a product catalog and assemble shareable bills",
		Commands: []*cli.Command{
			productCommand(cfg),
			billCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// withCatalog opens the store, hydrates the catalog and runs fn against it.
func withCatalog(cfg *config.Config, fn func(ctx context.Context, c *catalog.Catalog) error) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	c := catalog.New(store)
	if err := c.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}

// withBill opens the store and hydrates both the bill session and the
// catalog; the catalog snapshot feeds the product picker on "bill add".
func withBill(cfg *config.Config, fn func(ctx context.Context, s *bill.Session, c *catalog.Catalog) error) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	c := catalog.New(store)
	if err := c.Load(ctx); err != nil {
		return err
	}
	s := bill.New(store)
	if err := s.Load(ctx); err != nil {
		return err
	}
	return fn(ctx, s, c)
}

func productCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "manage the product catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list all products",
				Action: func(cCtx *cli.Context) error {
					return withCatalog(cfg, func(ctx context.Context, c *catalog.Catalog) error {
						products := c.List()
						if len(products) == 0 {
							fmt.Println("No products yet.")
							return nil
						}
						for _, p := range products {
							fmt.Printf("%s  %s  ₹%.2f\n", p.ID, p.Name, p.Price)
						}
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "add a product",
				ArgsUsage: "<name> <price>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return cli.Exit("usage: quickbill product add <name> <price>", 1)
					}
					return withCatalog(cfg, func(ctx context.Context, c *catalog.Catalog) error {
						p, err := c.Add(ctx, cCtx.Args().Get(0), cCtx.Args().Get(1))
						if err != nil {
							return err
						}
						if p == nil {
							fmt.Println("Not added: name must be non-empty and price a number > 0.")
							return nil
						}
						fmt.Printf("Added %s (%s) at ₹%.2f\n", p.Name, p.ID, p.Price)
						return nil
					})
				},
			},
			{
				Name:      "update",
				Usage:     "update a product's name and price",
				ArgsUsage: "<id> <name> <price>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 3 {
						return cli.Exit("usage: quickbill product update <id> <name> <price>", 1)
					}
					return withCatalog(cfg, func(ctx context.Context, c *catalog.Catalog) error {
						p, err := c.Update(ctx, cCtx.Args().Get(0), cCtx.Args().Get(1), cCtx.Args().Get(2))
						if err != nil {
							return err
						}
						if p == nil {
							fmt.Println("Not updated: unknown id, or invalid name/price.")
							return nil
						}
						fmt.Printf("Updated %s (%s) to ₹%.2f\n", p.Name, p.ID, p.Price)
						return nil
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a product",
				ArgsUsage: "<id>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: quickbill product remove <id>", 1)
					}
					return withCatalog(cfg, func(ctx context.Context, c *catalog.Catalog) error {
						return c.Remove(ctx, cCtx.Args().Get(0))
					})
				},
			},
			{
				Name:  "clear",
				Usage: "remove all products",
				Action: func(cCtx *cli.Context) error {
					return withCatalog(cfg, func(ctx context.Context, c *catalog.Catalog) error {
						return c.Clear(ctx)
					})
				},
			},
		},
	}
}

func billCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "bill",
		Usage: "assemble and share the current bill",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the current bill's items and total",
				Action: func(cCtx *cli.Context) error {
					return withBill(cfg, func(ctx context.Context, s *bill.Session, _ *catalog.Catalog) error {
						items := s.Items()
						if len(items) == 0 {
							fmt.Println("Bill is empty.")
							return nil
						}
						for _, it := range items {
							fmt.Printf("%s  %s  %g x ₹%.2f = ₹%.2f\n",
								it.ID, it.ProductName, it.Quantity, it.Price, it.Total)
						}
						fmt.Printf("Total: ₹%.2f\n", s.GrandTotal())
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "add a product to the bill",
				ArgsUsage: "<product-id> <quantity>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return cli.Exit("usage: quickbill bill add <product-id> <quantity>", 1)
					}
					return withBill(cfg, func(ctx context.Context, s *bill.Session, c *catalog.Catalog) error {
						item, err := s.AddItem(ctx, c.List(), cCtx.Args().Get(0), cCtx.Args().Get(1))
						if err != nil {
							return err
						}
						if item == nil {
							fmt.Println("Not added: unknown product id or quantity is not a number.")
							return nil
						}
						fmt.Printf("Added %s: %g x ₹%.2f = ₹%.2f\n",
							item.ProductName, item.Quantity, item.Price, item.Total)
						return nil
					})
				},
			},
			{
				Name:      "update",
				Usage:     "edit an item's quantity and/or price",
				ArgsUsage: "<item-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "quantity", Usage: "new quantity"},
					&cli.StringFlag{Name: "price", Usage: "new unit price"},
				},
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: quickbill bill update <item-id> [--quantity Q] [--price P]", 1)
					}
					return withBill(cfg, func(ctx context.Context, s *bill.Session, _ *catalog.Catalog) error {
						item, err := s.UpdateItem(ctx, cCtx.Args().Get(0),
							cCtx.String("quantity"), cCtx.String("price"))
						if err != nil {
							return err
						}
						if item == nil {
							fmt.Println("Not updated: unknown item id.")
							return nil
						}
						fmt.Printf("Updated %s: %g x ₹%.2f = ₹%.2f\n",
							item.ProductName, item.Quantity, item.Price, item.Total)
						return nil
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "remove an item from the bill",
				ArgsUsage: "<item-id>",
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 1 {
						return cli.Exit("usage: quickbill bill remove <item-id>", 1)
					}
					return withBill(cfg, func(ctx context.Context, s *bill.Session, _ *catalog.Catalog) error {
						return s.RemoveItem(ctx, cCtx.Args().Get(0))
					})
				},
			},
			{
				Name:  "total",
				Usage: "print the grand total",
				Action: func(cCtx *cli.Context) error {
					return withBill(cfg, func(ctx context.Context, s *bill.Session, _ *catalog.Catalog) error {
						fmt.Printf("₹%.2f\n", s.GrandTotal())
						return nil
					})
				},
			},
			{
				Name:  "share",
				Usage: "print the bill message and its WhatsApp link",
				Action: func(cCtx *cli.Context) error {
					return withBill(cfg, func(ctx context.Context, s *bill.Session, _ *catalog.Catalog) error {
						text, ok := s.ShareText()
						if !ok {
							fmt.Println("Bill is empty, nothing to share.")
							return nil
						}
						fmt.Println(text)
						fmt.Println()
						fmt.Println(share.WhatsAppLink(cfg.SharePhone, text))
						return nil
					})
				},
			},
		},
	}
}
