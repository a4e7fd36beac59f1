package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/client"
)

func newRootCommand() *cobra.Command {
	opts := &options{}
	var sess *session

	root := &cobra.Command{
		Use:          "shopcli",
		Short:        "Browse the storefront and manage a local cart",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			sess, err = opts.open(cmd.Context())
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", "http://localhost:3000", "storefront server base URL")
	flags.StringVar(&opts.store, "store", "file", "where the cart and language live: file or redis")
	flags.StringVar(&opts.dir, "dir", defaultDataDir(), "directory for the file store")
	flags.StringVar(&opts.redis.Addr, "redis-addr", "127.0.0.1:6379", "redis address for the redis store")
	flags.StringVar(&opts.redis.Password, "redis-password", "", "redis password")
	flags.IntVar(&opts.redis.Database, "redis-db", 0, "redis database")
	flags.StringVar(&opts.keySpace, "redis-prefix", "shopcli:", "key prefix for the redis store")

	current := func() *session { return sess }
	root.AddCommand(
		newProductsCommand(current),
		newProductCommand(current),
		newCategoriesCommand(current),
		newSearchCommand(current),
		newFeedbacksCommand(current),
		newAddProductCommand(current),
		newCartCommand(current),
		newLangCommand(current),
	)
	return root
}

func printProducts(w io.Writer, products []client.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSHOWN")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%t\n", p.ID, p.Name, p.Category, p.Price, p.Show)
	}
	return tw.Flush()
}

func newProductsCommand(sess func() *session) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List every product, or those of one category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				products []client.Product
				err      error
			)
			if category != "" {
				products, err = sess().api.GetProductsByCategory(cmd.Context(), category)
			} else {
				products, err = sess().api.GetProducts(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	return cmd
}

func newProductCommand(sess func() *session) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := sess().api.GetProductByID(cmd.Context(), args[0])
			if client.IsNotFound(err) {
				return fmt.Errorf("product %s not found", args[0])
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", p.Name, p.Category)
			fmt.Fprintf(out, "price:  %.2f\n", p.Price)
			fmt.Fprintf(out, "images: %s\n", strings.Join(p.ImageURLs, ", "))
			fmt.Fprintln(out, p.Description)
			return nil
		},
	}
}

func newCategoriesCommand(sess func() *session) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with their product counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := sess().api.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
			}
			return tw.Flush()
		},
	}
}

func newSearchCommand(sess func() *session) *cobra.Command {
	params := client.SearchParams{}
	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search product names and sort the result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				params.Search = args[0]
			}
			products, err := sess().api.SearchSort(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
	cmd.Flags().StringVar(&params.SortBy, "sort", "", "name_asc, name_desc, price_asc or price_desc")
	cmd.Flags().StringVar(&params.Category, "category", "", "only search this category")
	return cmd
}

func newFeedbacksCommand(sess func() *session) *cobra.Command {
	return &cobra.Command{
		Use:   "feedbacks <product-id>",
		Short: "Show the feedback left on a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feedbacks, err := sess().api.Feedbacks(cmd.Context(), args[0])
			if client.IsNotFound(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "no feedback yet")
				return nil
			}
			if err != nil {
				return err
			}
			for _, f := range feedbacks {
				fmt.Fprintf(cmd.OutOrStdout(), "%d/5 %s (%s): %s\n",
					f.Rate, f.User.Name, f.CreatedAt.Format("2006-01-02"), f.Feedback)
			}
			return nil
		},
	}
}

func newAddProductCommand(sess func() *session) *cobra.Command {
	p := client.NewProduct{}
	var images []string
	cmd := &cobra.Command{
		Use:   "add-product",
		Short: "Create a product from local image files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, path := range images {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				p.Images = append(p.Images, client.Image{Name: filepath.Base(path), Data: data})
			}
			message, err := sess().api.AddProduct(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&p.Name, "name", "", "product name")
	flags.StringVar(&p.Description, "description", "", "product description")
	flags.Float64Var(&p.Price, "price", 0, "product price")
	flags.StringVar(&p.Category, "category", "", "product category")
	flags.BoolVar(&p.Show, "show", true, "list the product in the shop")
	flags.StringSliceVar(&images, "image", nil, "image file, repeat for several")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newCartCommand(sess func() *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the local cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printCart(cmd.OutOrStdout(), sess())
		},
	}

	byID := func(use, short string, fn func(cmd *cobra.Command, id string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <product-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := fn(cmd, args[0]); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), sess())
			},
		}
	}

	cmd.AddCommand(
		byID("add", "Fetch a product and add it to the cart", func(cmd *cobra.Command, id string) error {
			p, err := sess().api.GetProductByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return sess().cart.Add(cmd.Context(), toCartProduct(p))
		}),
		byID("inc", "Add one more of a product already in the cart", func(cmd *cobra.Command, id string) error {
			return sess().cart.Increment(cmd.Context(), id)
		}),
		byID("dec", "Take one of a product out of the cart", func(cmd *cobra.Command, id string) error {
			return sess().cart.Decrement(cmd.Context(), id)
		}),
		byID("rm", "Remove a product from the cart", func(cmd *cobra.Command, id string) error {
			return sess().cart.Remove(cmd.Context(), id)
		}),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return sess().cart.Clear(cmd.Context())
			},
		},
	)
	return cmd
}

func printCart(w io.Writer, s *session) error {
	items := s.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\n", item.ID, item.Name, item.Quantity, item.Price)
	}
	fmt.Fprintf(tw, "TOTAL\t\t%d\t%s\n", s.cart.Count(), s.cart.Total().StringFixed(2))
	return tw.Flush()
}

func newLangCommand(sess func() *session) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [tag]",
		Short: "Show or change the display language sent to the server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := sess().lang.Change(cmd.Context(), args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", sess().lang.Current(), sess().lang.Direction())
			return nil
		},
	}
}
