package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/scrnstr/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.Container(cmd.Context())
			if err != nil {
				return err
			}
			if c.DoctorService == nil {
				return errors.New("doctor service unavailable")
			}
			report, err := c.DoctorService.Run(cmd.Context())
			// The report is useful even when a check failed.
			helpers.RenderDoctorReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("diagnostics completed with errors: %w", err)
			}
			if !report.Healthy() {
				return errors.New("diagnostics found failing checks")
			}
			return nil
		},
	}
}
