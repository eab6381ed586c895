package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cookieshop/internal/app"
	"cookieshop/internal/domain/model"
	"cookieshop/internal/usecase"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "catalog tools",
	}
	cmd.AddCommand(newProductsListCmd(), newProductsImportCmd())
	return cmd
}

func newProductsListCmd() *cobra.Command {
	var search string
	var category int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "print products as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			in := usecase.ListProductsInput{Search: search}
			if category > 0 {
				in.CategoryID = &category
			}
			products, err := a.Products.List(cmdContext(cmd), in)
			if err != nil {
				return err
			}
			renderProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "name contains (case-insensitive)")
	cmd.Flags().Int64Var(&category, "category", 0, "category id")
	return cmd
}

// JSON配列（POST /api/products/import/json と同じ形式）
func newProductsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "import products from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var ins []usecase.ProductInput
			if err := json.Unmarshal(raw, &ins); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.Products.Import(cmdContext(cmd), ins)
			if err != nil {
				return err
			}
			log.Infof("imported %d products from %s", len(created), args[0])
			renderProducts(cmd.OutOrStdout(), created)
			return nil
		},
	}
}

func renderProducts(w io.Writer, products []model.Product) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Price", "Weight", "Stock", "Categories"})
	for _, p := range products {
		ids := make([]string, 0, len(p.CategoryIDs))
		for _, id := range p.CategoryIDs {
			ids = append(ids, strconv.FormatInt(id, 10))
		}
		t.AppendRow(table.Row{p.ID, p.Name, p.Price.StringFixed(2), p.Weight.StringFixed(2), p.Stock, strings.Join(ids, ",")})
	}
	t.AppendFooter(table.Row{"", "Total", len(products)})
	t.Render()
}
