package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/evdealer-wizard/internal/console"
	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

func newCustomersCmd(e *env) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List customers stored on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, b, err := e.backend(cmd)
			if err != nil {
				return err
			}
			list, err := b.Customers.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, customerRows(list))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), console.RenderCustomers(list))
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type customerRow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func customerRows(list []customer.Customer) []customerRow {
	rows := make([]customerRow, 0, len(list))
	for _, c := range list {
		rows = append(rows, customerRow{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email})
	}
	return rows
}

type vehicleRow struct {
	Model   string         `json:"model"`
	Variant string         `json:"variant"`
	Colors  []vehicleColor `json:"colors"`
}

type vehicleColor struct {
	Color string `json:"color"`
	Price string `json:"price,omitempty"`
	Stock *int   `json:"stock,omitempty"`
}

func vehicleRows(vehicles []catalog.Vehicle) []vehicleRow {
	rows := make([]vehicleRow, 0, len(vehicles))
	for _, v := range vehicles {
		row := vehicleRow{Model: v.ModelName, Variant: v.VariantName}
		for _, color := range v.Colors() {
			vc := vehicleColor{Color: color}
			if price, err := catalog.ResolveUnitPrice(v, color); err == nil {
				vc.Price = price.StringFixed(0)
			}
			if stock, ok := v.Stock(color); ok {
				vc.Stock = &stock
			}
			row.Colors = append(row.Colors, vc)
		}
		rows = append(rows, row)
	}
	return rows
}

func newCatalogCmd(e *env) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the dealer's vehicles with prices and stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, b, err := e.backend(cmd)
			if err != nil {
				return err
			}
			vehicles, err := b.Catalog.ListVehicles(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, vehicleRows(vehicles))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), console.RenderCatalog(vehicles))
			return err
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newPromotionsCmd(e *env) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "promotions",
		Short: "List the promotions applicable today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, b, err := e.backend(cmd)
			if err != nil {
				return err
			}
			list, err := b.Promotions.ListForDealer(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				list = promotion.Filter(list, time.Now())
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), console.RenderPromotions(list, nil))
			return err
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include inactive and expired promotions")
	return cmd
}

func newSummaryCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <order-id>",
		Short: "Show the summary of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || orderID <= 0 {
				return errors.Errorf("invalid order id %q", args[0])
			}
			_, b, err := e.backend(cmd)
			if err != nil {
				return err
			}
			sum, err := b.Orders.Summary(cmd.Context(), orderID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), console.RenderSummary(sum))
			return err
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
