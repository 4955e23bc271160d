package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/catalog"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/config"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/db"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/logging"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/source"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/storage"
	"github.com/expotoworld/expotoworld/backend/storefront-service/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type globalFlags struct {
	Source     string
	SQLitePath string
	Verbose    bool
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse and seed the storefront catalog from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.Verbose {
				logging.SetLogger(logging.New(zapcore.AddSync(cmd.ErrOrStderr())))
			} else {
				logging.SetLogger(zap.NewNop())
			}
		},
	}
	root.PersistentFlags().StringVar(&flags.Source, "source", "", "Catalog source: postgres, sqlite or s3 (overrides CATALOG_SOURCE)")
	root.PersistentFlags().StringVar(&flags.SQLitePath, "sqlite-path", "", "SQLite catalog file (overrides SQLITE_PATH)")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Write JSON logs to stderr")

	root.AddCommand(newListCommand(&flags))
	root.AddCommand(newBrowseCommand(&flags))
	root.AddCommand(newSeedCommand(&flags))
	return root
}

// loadConfig reads the service configuration and applies the command line overrides
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.Source != "" {
		cfg.Source = strings.ToLower(flags.Source)
	}
	if flags.SQLitePath != "" {
		cfg.SQLitePath = flags.SQLitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openPage(ctx context.Context, flags *globalFlags) (*catalog.Page, func(), error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	src, closeSource, err := source.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	page := catalog.NewPage(catalog.NewRepository(src), catalog.NewSearchTerm(),
		catalog.WithPlaceholder(cfg.PlaceholderImage),
		catalog.WithFetchTimeout(cfg.FetchTimeout),
	)
	return page, closeSource, nil
}

func newListCommand(flags *globalFlags) *cobra.Command {
	var (
		search      string
		category    string
		subcategory string
		sortRaw     string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the product grid for the given selectors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			option, err := catalog.ParseSortOption(sortRaw)
			if err != nil {
				return err
			}
			page, closeSource, err := openPage(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeSource()

			selection := page.Selection()
			if category != "" {
				selection.SelectCategory(category)
			}
			if subcategory != "" {
				selection.SelectSubcategory(subcategory)
			}
			selection.SetSort(option)
			page.Header().Search(search)

			if err := page.MountAndWait(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %w", catalog.MessageLoadFailed, err)
			}

			view := page.View()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			if view.Status != catalog.StatusReady {
				_, err := fmt.Fprintln(out, view.Message)
				return err
			}
			_, err = fmt.Fprintln(out, renderTable(view))
			return err
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive name search")
	cmd.Flags().StringVar(&category, "category", "", "Category to narrow to")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "Subcategory to narrow to")
	cmd.Flags().StringVar(&sortRaw, "sort", string(catalog.DefaultSortOption), "Sort: alfabetico, menor-precio, mayor-precio or ofertas")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view as JSON")
	return cmd
}

func renderTable(view catalog.View) string {
	t := table.New().Headers("ID", "Producto", "Categoría", "Precio", "Imagen")
	for _, c := range view.Products {
		category := c.Category
		if c.Subcategory != nil && *c.Subcategory != "" {
			category += " / " + *c.Subcategory
		}
		price := fmt.Sprintf("$%.2f%s", c.EffectivePrice, c.UnitLabel)
		if c.IsDiscounted {
			price = fmt.Sprintf("$%.2f → %s", c.Price, price)
		}
		t.Row(fmt.Sprint(c.ID), c.Name, category, price, c.ImageURL)
	}
	return t.Render()
}

func newBrowseCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive storefront page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, closeSource, err := openPage(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer closeSource()

			_, err = tea.NewProgram(tui.New(page), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

func newSeedCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <rows.json>",
		Short: "Load a JSON array of product rows into the SQLite catalog.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open rows file: %w", err)
			}
			defer f.Close()
			rows, err := storage.DecodeRows(f)
			if err != nil {
				return err
			}

			store, err := db.OpenSQLite(cmd.Context(), cfg.SQLitePath, cfg.Database.Table)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			if err := store.InsertRows(cmd.Context(), rows); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d products into %s\n", len(rows), cfg.SQLitePath)
			return err
		},
	}
}
