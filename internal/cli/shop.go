package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/classgold/internal/api/response"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Shop commands",
	}

	cmd.AddCommand(newShopCatalogCmd())
	cmd.AddCommand(newShopBuyCmd())
	cmd.AddCommand(newShopPriceCmd())

	return cmd
}

func newShopCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show the shop catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Catalog
			if err := client.Get("/api/v1/shop/catalog", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newShopBuyCmd() *cobra.Command {
	var price int

	cmd := &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy an item at the price you saw",
		Long: `Buy an item from the shop. The price must match the shop's current price;
if the teacher changed it, the purchase is refused and the current catalog is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"item_id": args[0],
				"price":   price,
			}
			var result response.PurchaseResponse
			err := client.Post("/api/v1/shop/purchase", req, &result)
			if err != nil {
				return purchaseError(err)
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&price, "price", 0, "Price shown in the catalog (required)")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

// purchaseError shows the refreshed catalog that comes with a refused purchase
func purchaseError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	var rejection response.PurchaseRejection
	if apiErr.DecodeDetails(&rejection) != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	if rejection.Item != nil && cfg.Output != "json" {
		out.PrintMessage(fmt.Sprintf("Current price of %s is %d gold", rejection.Item.Name, rejection.Item.Price))
	}
	out.Print(rejection.Catalog)
	return err
}

func newShopPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <item-id> <price>",
		Short: "Set the price of an item in your shop (teachers)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Send whole numbers as numbers and let the server reject anything else
			var price json.RawMessage
			if n, err := strconv.Atoi(args[1]); err == nil {
				price = json.RawMessage(strconv.Itoa(n))
			} else {
				price, _ = json.Marshal(args[1])
			}

			var result response.Item
			path := "/api/v1/shop/items/" + url.PathEscape(args[0]) + "/price"
			if err := client.Patch(path, map[string]json.RawMessage{"price": price}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
