package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/2beens/fittrack/internal/dbstatus"
	"github.com/2beens/fittrack/internal/planmanager"
	"github.com/2beens/fittrack/internal/plans"

	"github.com/spf13/cobra"
)

// liveServiceNote goes into the help of every command that writes plans or progress.
const liveServiceNote = `fitctl writes postgres directly and drops the user's redis mirror. A running
service still holds the user's days in memory and may have writes pending for
them: stop the service first, or use the HTTP endpoints while it runs.`

func printStatus(w io.Writer, status dbstatus.Status) {
	switch {
	case status.Ready:
		fmt.Fprintf(w, "database ready, %d tables\n", len(status.Existing))
	case status.Offline:
		fmt.Fprintf(w, "database offline: %s\n", status.Error)
	default:
		fmt.Fprintf(w, "database not ready, missing: %v\n", status.Missing)
		if status.Error != "" {
			fmt.Fprintf(w, "error: %s\n", status.Error)
		}
	}
}

func setupDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup-db",
		Short: "Create the missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			status, err := a.checker().Setup(cmd.Context())
			printStatus(cmd.OutOrStdout(), status)
			return err
		},
	}
}

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check which tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			status := a.checker().Check(cmd.Context())
			printStatus(cmd.OutOrStdout(), status)
			if !status.Ready {
				return fmt.Errorf("database not ready")
			}
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	var userID, file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a plan document as the user's custom plans",
		Long: `Replaces the user's custom plans with the first workout and diet plan of the
document, deleting the progress of each imported domain.

` + liveServiceNote,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			current, err := a.manager.ImportDocument(cmd.Context(), userID, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported for %s: workout plan [%s], diet plan [%s]\n",
				userID, current.Workout.ID, current.Diet.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&file, "file", "", "plan document (JSON)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var userID, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the user's current plans as a plan document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			doc, err := a.manager.Export(cmd.Context(), userID)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), out, doc)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func writeDocument(stdout io.Writer, out string, doc *plans.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')
	if out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func resetCmd(a *app) *cobra.Command {
	var userID, domain, mode string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset plans and progress of a user",
		Long: `Without --domain both domains are wiped (emergency reset).
With --domain only that domain is cleared, and --mode picks whether the
user falls back to the catalog default or to the empty plan.

` + liveServiceNote,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				d         plans.Domain
				resetMode planmanager.ResetMode
				err       error
			)
			if domain != "" {
				if d, err = plans.ParseDomain(domain); err != nil {
					return err
				}
				if resetMode, err = planmanager.ParseResetMode(mode); err != nil {
					return err
				}
			}

			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			if domain == "" {
				err = a.manager.EmergencyReset(cmd.Context(), userID)
			} else {
				err = a.manager.DeleteAll(cmd.Context(), userID, d, resetMode)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset done for %s\n", userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&domain, "domain", "", "workout or diet (default: both)")
	cmd.Flags().StringVar(&mode, "mode", string(planmanager.ResetToDefault), "default or empty")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
