package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fakestore/storefront/internal/app"
	"github.com/fakestore/storefront/internal/authform"
	"github.com/fakestore/storefront/internal/cache"
	"github.com/fakestore/storefront/internal/cart"
	"github.com/fakestore/storefront/internal/catalog"
	"github.com/fakestore/storefront/internal/config"
	"github.com/fakestore/storefront/internal/events"
	"github.com/fakestore/storefront/internal/gateway"
	"github.com/fakestore/storefront/internal/logging"
	"github.com/fakestore/storefront/internal/models"
	"github.com/fakestore/storefront/internal/session"
	"github.com/fakestore/storefront/internal/storage"
	"github.com/fakestore/storefront/internal/validation"
	"github.com/fakestore/storefront/pkg/authclient"
)

func buildApp() (*app.App, *events.Producer, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logging.New(cfg.LogLevel)

	store, err := storage.Open(cfg.StoragePath)
	if err != nil {
		return nil, nil, nil, err
	}

	gw := gateway.New(cfg.RequestTimeout)
	auth := authclient.New(authclient.Config{
		BaseURL:        cfg.AuthBase,
		SignupPath:     cfg.AuthSignupPath,
		SigninPath:     cfg.AuthSigninPath,
		VerifyPath:     cfg.AuthVerifyPath,
		SignoutPath:    cfg.AuthSignoutPath,
		DeleteUserPath: cfg.AuthDeleteUserPath,
	}, gw)

	cat := catalog.New(catalog.Config{
		BaseURL:        cfg.ShopBase,
		ProductsPath:   cfg.ShopProductsPath,
		CategoriesPath: cfg.ShopCategoriesPath,
		CategoryPath:   cfg.ShopCategoryPath,
		ProductsTTL:    cfg.ProductsCacheTTL,
		CategoriesTTL:  cfg.CategoriesCacheTTL,
	}, gw, cache.New(store, log), log)

	producer := events.NewProducer(cfg.KafkaAddress, cfg.KafkaTopic, uuid.NewString(), log)
	sessions := session.NewManager(session.NewStore(store), auth, log)
	forms := authform.New(auth)

	return app.New(sessions, cat, forms, producer, log), producer, log, nil
}

func printItems(items []models.Item) {
	for _, item := range items {
		fmt.Printf("%4d  %-60s %8s$  x%d\n",
			item.Product.ID,
			item.Product.Title,
			cart.FormatCost(item.Product.Price),
			item.Quantity,
		)
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func main() {
	a, producer, log, err := buildApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer producer.Close()
	defer a.Wait()

	ctx := logging.IntoContext(context.Background(), log)
	if err := a.Boot(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var category string
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally for one category",
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []models.Item
			var err error
			if category != "" {
				items, err = a.ProductsByCategory(cmd.Context(), category)
			} else {
				items, err = a.Products(cmd.Context())
			}
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("Sorry, there are no products! Please visit us later.")
				return nil
			}
			printItems(items)
			return nil
		},
	}
	productsCmd.Flags().StringVar(&category, "category", "", "category name")

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.Categories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Println(c)
			}
			return nil
		},
	}

	cartCmd := &cobra.Command{Use: "cart", Short: "Show or edit the cart"}
	cartCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show cart contents and total",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.Cart()
			printItems(c)
			fmt.Printf("%d items, total %s$\n", cart.Count(c), cart.FormatCost(cart.TotalCost(c)))
			return nil
		},
	})
	cartCmd.AddCommand(&cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a product's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			product, err := findProduct(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			a.UpdateCart(cmd.Context(), product, quantity)
			return nil
		},
	})

	wishlistCmd := &cobra.Command{Use: "wishlist", Short: "Show or toggle the wishlist"}
	wishlistCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show wishlist contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := a.Wishlist()
			if len(w) == 0 {
				fmt.Println("Your wishlist is empty")
				return nil
			}
			printItems([]models.Item(w))
			return nil
		},
	})
	wishlistCmd.AddCommand(&cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			product, err := findProduct(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			a.ToggleWishlist(cmd.Context(), models.Item{Product: product, Quantity: 1})
			return nil
		},
	})

	signinCmd := &cobra.Command{
		Use:   "signin <username>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			fields := map[string]string{
				validation.FieldUsername: args[0],
				validation.FieldPassword: password,
			}
			return reportAuthResult(a.SubmitAuthForm(cmd.Context(), authform.IntentSignin, fields))
		},
	}

	signupCmd := &cobra.Command{
		Use:   "signup <fullname> <username>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return err
			}
			fields := map[string]string{
				validation.FieldFullname: args[0],
				validation.FieldUsername: args[1],
				validation.FieldPassword: password,
				validation.FieldConfirm:  confirm,
			}
			return reportAuthResult(a.SubmitAuthForm(cmd.Context(), authform.IntentSignup, fields))
		},
	}

	signoutCmd := &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.SignOut(cmd.Context())
			fmt.Println("Signed out")
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete the account permanently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Account deleted")
			return nil
		},
	}

	checkoutCmd := &cobra.Command{
		Use:   "checkout",
		Short: "Check the cart out",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.Checkout(cmd.Context())
			if result.RedirectToSignIn {
				fmt.Println("Please sign in to check out.")
				return nil
			}
			fmt.Println("Thank you for your order!")
			return nil
		},
	}

	root.AddCommand(productsCmd, categoriesCmd, cartCmd, wishlistCmd,
		signinCmd, signupCmd, signoutCmd, deleteCmd, checkoutCmd)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func findProduct(ctx context.Context, a *app.App, id int) (models.Product, error) {
	items, err := a.Products(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, item := range items {
		if item.Product.ID == id {
			return item.Product, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %d not found", id)
}

func reportAuthResult(result authform.Result) error {
	switch {
	case len(result.FieldErrors) > 0:
		var b strings.Builder
		for name, msg := range result.FieldErrors {
			fmt.Fprintf(&b, "%s: %s\n", name, msg)
		}
		return fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
	case result.SubmitError != "":
		return fmt.Errorf("%s", result.SubmitError)
	case result.Redirect != "":
		fmt.Printf("Please continue at %s\n", result.Redirect)
		return nil
	default:
		fmt.Printf("Welcome, %s!\n", result.AuthData.Fullname)
		return nil
	}
}
