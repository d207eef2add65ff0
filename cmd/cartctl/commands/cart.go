package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
)

type storeOpener func(ctx context.Context) (*cart.Store, error)

func printCart(w io.Writer, snap cart.Snapshot) {
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "Seu carrinho está vazio 🛒")
		return
	}
	for _, item := range snap.Items {
		fmt.Fprintf(w, "%-24s %3d × %-12s %s\n", item.ID, item.Qty, storefront.FormatBRL(item.Price), item.Name)
	}
	fmt.Fprintf(w, "Total (%d itens): %s\n", snap.TotalItems, storefront.FormatBRL(snap.TotalPrice))
}

func showCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), store.Snapshot())
			return nil
		},
	}
}

// add <id> [name] [price]: catalog products only need the id.
func addCmd(open storeOpener, rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> [name] [price]",
		Short: "Add one unit of a product",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var product cart.Product
			switch len(args) {
			case 1:
				p, ok := rt().catalog.Lookup(args[0])
				if !ok {
					return fmt.Errorf("product %q is not in the catalog; pass name and price", args[0])
				}
				product = p.CartProduct()
			case 3:
				price, err := decimal.NewFromString(args[2])
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", args[2], err)
				}
				product = cart.Product{ID: args[0], Name: args[1], Price: price}
			default:
				return fmt.Errorf("name and price must be given together")
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Add(cmd.Context(), product); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s adicionado ao carrinho!\n", product.Name)
			printCart(cmd.OutOrStdout(), store.Snapshot())
			return nil
		},
	}
}

func removeCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), store.Snapshot())
			return nil
		},
	}
}

func qtyCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <id> <n>",
		Short: "Set the quantity of a line (minimum 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.UpdateQuantity(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), store.Snapshot())
			return nil
		},
	}
}

func clearCmd(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			printCart(cmd.OutOrStdout(), store.Snapshot())
			return nil
		},
	}
}

func checkoutCmd(open storeOpener, rt func() *runtime) *cobra.Command {
	var phone string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Print the order message and its WhatsApp link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if phone == "" {
				phone = rt().cfg.Cart.WhatsAppPhone
			}
			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			checkout, err := store.Checkout(phone)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, checkout.Message)
			fmt.Fprintln(out)
			fmt.Fprintln(out, checkout.Link)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "destination phone (defaults to MFG_WHATSAPP_PHONE)")
	return cmd
}
