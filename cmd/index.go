package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"osuparse/catalog"
)

func init() {
	indexCmd.Flags().String("db", "", "catalog database (default from config)")
	indexCmd.Flags().Int("workers", 0, "files decoded in parallel (default from config)")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Decode every beatmap under a directory into the catalog",
	Long: `Walk a directory (an osu! Songs folder, say) and decode every .osu file and
every difficulty inside .osz archives. Successes and failures are written to
the SQLite catalog under one scan ID. A broken file never stops the scan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("workers") {
			cfg.Catalog.Workers, _ = cmd.Flags().GetInt("workers")
		}
		cat, err := openCatalog(cmd)
		if err != nil {
			return err
		}
		defer cat.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		report, err := cat.Scan(ctx, args[0], cfg.Catalog.Workers)
		fmt.Fprintf(cmd.OutOrStdout(), "scan %s: %d indexed, %d failed\n", report.ID, report.Indexed, report.Failed)
		return err
	},
}

// openCatalog opens and migrates the catalog named by --db or the config.
func openCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	if cmd.Flags().Changed("db") {
		cfg.Catalog.Path, _ = cmd.Flags().GetString("db")
	}
	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	version, err := cat.Migrate()
	if err != nil {
		cat.Close()
		return nil, errors.Wrap(err, "migrate catalog")
	}
	log.Debug("catalog ready", "path", cfg.Catalog.Path, "schema", version)
	return cat, nil
}
