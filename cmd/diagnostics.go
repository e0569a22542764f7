// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/classificacaofinal/classificacao/internal/backup"
	"github.com/classificacaofinal/classificacao/internal/config"
	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/spf13/cobra"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and cleanup helpers",
		Long:  "Diagnostic utilities for inspecting and maintaining the classification database.",
	}

	migrationsCmd = &cobra.Command{
		Use:   "migrations",
		Short: "List applied schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store database.Store) error {
				return runMigrations(cmd.OutOrStdout(), store)
			})
		},
	}

	purgeSessionsCmd = &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired and revoked sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			return withStore(func(store database.Store) error {
				return runPurgeSessions(cmd.OutOrStdout(), cmd.InOrStdin(), store, force, time.Now())
			})
		},
	}

	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Write a compressed snapshot of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := backupConfigFromFlags(cmd)
			return withStore(func(store database.Store) error {
				return runBackup(cmd.OutOrStdout(), store, cfg)
			})
		},
	}

	backupsCmd = &cobra.Command{
		Use:   "backups",
		Short: "List database snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListBackups(cmd.OutOrStdout(), backupConfigFromFlags(cmd).Dir)
		},
	}

	restoreCmd = &cobra.Command{
		Use:   "restore ARCHIVE",
		Short: "Replace the database with a snapshot (stop the server first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			return runRestore(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], config.AppConfig.DatabasePath, force)
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Inspect stored contests",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withStore(func(store database.Store) error {
				return runDiagnosticsQuery(cmd.OutOrStdout(), store, limit)
			})
		},
	}
)

func init() {
	purgeSessionsCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	queryCmd.Flags().Int("limit", 5, "Number of contests to display")

	defaults := backup.DefaultConfig()
	for _, c := range []*cobra.Command{backupCmd, backupsCmd} {
		c.Flags().String("dir", defaults.Dir, "Backup directory")
	}
	backupCmd.Flags().Int("keep", defaults.MaxBackups, "Number of snapshots to keep (0 keeps all)")
	restoreCmd.Flags().Bool("yes", false, "Skip confirmation prompt")

	diagnosticsCmd.AddCommand(migrationsCmd)
	diagnosticsCmd.AddCommand(purgeSessionsCmd)
	diagnosticsCmd.AddCommand(queryCmd)
	diagnosticsCmd.AddCommand(backupCmd)
	diagnosticsCmd.AddCommand(backupsCmd)
	diagnosticsCmd.AddCommand(restoreCmd)
}

// sqlHandle is implemented by stores backed by database/sql.
type sqlHandle interface {
	DB() *sql.DB
}

func runMigrations(out io.Writer, store database.Store) error {
	handle, ok := store.(sqlHandle)
	if !ok {
		return errors.New("store does not expose a SQL handle")
	}
	records, err := database.AppliedMigrations(handle.DB())
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No migrations applied.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(out, "%3d  %s  %s\n", r.Version, r.AppliedAt.Format(time.RFC3339), r.Description)
	}
	return nil
}

func backupConfigFromFlags(cmd *cobra.Command) backup.Config {
	cfg := backup.DefaultConfig()
	if dir, err := cmd.Flags().GetString("dir"); err == nil && dir != "" {
		cfg.Dir = dir
	}
	if keep, err := cmd.Flags().GetInt("keep"); err == nil {
		cfg.MaxBackups = keep
	}
	return cfg
}

func runBackup(out io.Writer, store database.Store, cfg backup.Config) error {
	handle, ok := store.(sqlHandle)
	if !ok {
		return errors.New("store does not expose a SQL handle")
	}
	info, err := backup.Create(handle.DB(), cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Backup written to %s (%d bytes, sha256 %s)\n", info.Path, info.Size, info.Checksum)
	return nil
}

func runListBackups(out io.Writer, dir string) error {
	backups, err := backup.List(dir)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Fprintf(out, "No backups in %s.\n", dir)
		return nil
	}
	for _, b := range backups {
		fmt.Fprintf(out, "%s  %10d  %s\n", b.CreatedAt.Format(time.RFC3339), b.Size, b.Filename)
	}
	return nil
}

func runRestore(out io.Writer, in io.Reader, archive, target string, force bool) error {
	if !force {
		confirmed, err := promptYesNo(out, in, fmt.Sprintf("Overwrite %s with %s", target, archive))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted. Database left untouched.")
			return nil
		}
	}
	if err := backup.Restore(archive, target); err != nil {
		return err
	}
	fmt.Fprintf(out, "Restored %s\n", target)
	return nil
}

func runPurgeSessions(out io.Writer, in io.Reader, store database.Store, force bool, now time.Time) error {
	fmt.Fprintf(out, "Purging sessions expired before %s in %s\n", now.Format(time.RFC3339), config.AppConfig.DatabasePath)

	if !force {
		confirmed, err := promptYesNo(out, in, "Delete expired sessions")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted. No sessions deleted.")
			return nil
		}
	}

	deleted, err := store.DeleteExpiredSessions(now)
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d sessions.\n", deleted)
	return nil
}

func runDiagnosticsQuery(out io.Writer, store database.Store, limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	contests, err := store.ListContests()
	if err != nil {
		return fmt.Errorf("failed to fetch contests: %w", err)
	}
	if len(contests) == 0 {
		fmt.Fprintln(out, "No contests found.")
		return nil
	}
	if len(contests) > limit {
		contests = contests[:limit]
	}

	for i, contest := range contests {
		results, err := store.ListResultsByContest(contest.ID)
		if err != nil {
			return fmt.Errorf("failed to fetch results of contest %d: %w", contest.ID, err)
		}
		fmt.Fprintf(out, "%2d. ID: %d\n", i+1, contest.ID)
		fmt.Fprintf(out, "    Name: %s\n", truncateString(contest.Name, 80))
		fmt.Fprintf(out, "    Banca: %s\n", contest.Banca)
		fmt.Fprintf(out, "    Cargo: %s\n", contest.Cargo)
		fmt.Fprintf(out, "    Results: %d\n", len(results))
		fmt.Fprintln(out, "---")
	}
	return nil
}

func promptYesNo(out io.Writer, in io.Reader, action string) (bool, error) {
	fmt.Fprintf(out, "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
