package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discfound/discfound-backend/internal/reports"
)

func newReportCmd() *cobra.Command {
	var (
		expectedProfiles int64
		expectedSources  int64
		expectedItems    int64
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reconciliation report: migration progress and unmapped source refs",
		RunE: func(cmd *cobra.Command, args []string) error {
			boot, err := bootstrap(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer boot.close()

			service, err := reports.NewService(reports.NewRepository(boot.db.DB()), boot.logg)
			if err != nil {
				return fmt.Errorf("create reports service: %w", err)
			}

			report, err := service.Reconciliation(cmd.Context(), reports.ExpectedTotals{
				Profiles: expectedProfiles,
				Sources:  expectedSources,
				Items:    expectedItems,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(report)
			}
			fmt.Print(report.Render())
			return nil
		},
	}

	cmd.Flags().Int64Var(&expectedProfiles, "expected-profiles", 0, "Row count of the external profiles export (0 = unknown)")
	cmd.Flags().Int64Var(&expectedSources, "expected-sources", 0, "Row count of the external sources export (0 = unknown)")
	cmd.Flags().Int64Var(&expectedItems, "expected-items", 0, "Row count of the external found-items export (0 = unknown)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable report JSON")
	return cmd
}
