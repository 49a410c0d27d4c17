package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/discfound/discfound-backend/internal/contacts"
	"github.com/discfound/discfound-backend/internal/cron"
	"github.com/discfound/discfound-backend/internal/importer"
	"github.com/discfound/discfound-backend/internal/items"
	"github.com/discfound/discfound-backend/internal/profiles"
	"github.com/discfound/discfound-backend/internal/sources"
	"github.com/discfound/discfound-backend/pkg/metrics"
	"github.com/discfound/discfound-backend/pkg/outbox"
)

func newRunCmd() *cobra.Command {
	var (
		profilesPath string
		sourcesPath  string
		itemsPath    string
		contactsPath string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import legacy CSV exports",
		Long: "Imports the selected exports in dependency order (sources before " +
			"items). Re-running the same files is safe: rows are keyed on their " +
			"legacy row id. Row-level failures are reported in the summary and do " +
			"not fail the command.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if profilesPath == "" && sourcesPath == "" && itemsPath == "" && contactsPath == "" {
				return errors.New("nothing to import: pass at least one of --profiles, --sources, --items, --contacts")
			}

			boot, err := bootstrap(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer boot.close()

			gdb := boot.db.DB()
			lock, err := cron.NewRedisLock(boot.redis, boot.redis.LockKey("import"), boot.cfg.Importer.LockTTL)
			if err != nil {
				return fmt.Errorf("create import lock: %w", err)
			}

			service, err := importer.NewService(
				boot.db,
				profiles.NewRepository(gdb),
				profiles.NewStagedRepository(gdb),
				sources.NewRepository(gdb),
				items.NewRepository(gdb),
				contacts.NewRepository(gdb),
				outbox.NewService(outbox.NewRepository(gdb), boot.logg),
				lock,
				boot.logg,
				boot.cfg.Importer,
				metrics.NewImporterMetrics(prometheus.DefaultRegisterer),
			)
			if err != nil {
				return fmt.Errorf("create import service: %w", err)
			}

			summaries, err := service.Run(cmd.Context(), importer.RunInput{
				ProfilesPath: profilesPath,
				SourcesPath:  sourcesPath,
				ItemsPath:    itemsPath,
				ContactsPath: contactsPath,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(summaries)
			}
			for _, summary := range summaries {
				fmt.Print(summary.Render())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profilesPath, "profiles", "", "Profiles export CSV path")
	cmd.Flags().StringVar(&sourcesPath, "sources", "", "Source locations export CSV path")
	cmd.Flags().StringVar(&itemsPath, "items", "", "Found items export CSV path")
	cmd.Flags().StringVar(&contactsPath, "contacts", "", "Found items export CSV path to fan out into contact attempts (usually the same file as --items)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable summary JSON")
	return cmd
}
