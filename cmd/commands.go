// file: cmd/commands.go
// version: 1.0.0
// guid: a41f7c9e-3d2b-4e86-b5a0-8c6d1f2e7b93

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/classificacaofinal/classificacao/internal/database"
	"github.com/classificacaofinal/classificacao/internal/importer"
	"github.com/classificacaofinal/classificacao/internal/matcher"
	"github.com/classificacaofinal/classificacao/internal/models"
	"github.com/classificacaofinal/classificacao/internal/server"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	importCmd = &cobra.Command{
		Use:   "import FILE",
		Short: "Import classification lists from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")
			return withStore(func(store database.Store) error {
				return runImport(cmd.OutOrStdout(), store, args[0], !quiet)
			})
		},
	}

	lookupCmd = &cobra.Command{
		Use:   "lookup NAME",
		Short: "Find a candidate in every contest",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store database.Store) error {
				return runLookup(cmd.OutOrStdout(), store, strings.Join(args, " "))
			})
		},
	}

	compareCmd = &cobra.Command{
		Use:   "compare ID1 ID2",
		Short: "List the candidates present in two contests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 2)
			for i, raw := range args {
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid contest id %q", raw)
				}
				ids[i] = id
			}
			return withStore(func(store database.Store) error {
				return runCompare(cmd.OutOrStdout(), store, ids[0], ids[1])
			})
		},
	}

	promoteCmd = &cobra.Command{
		Use:   "promote EMAIL",
		Short: "Change the role of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			return withStore(func(store database.Store) error {
				return runPromote(cmd.OutOrStdout(), store, args[0], role)
			})
		},
	}
)

func init() {
	importCmd.Flags().Bool("quiet", false, "Do not show a progress bar")
	promoteCmd.Flags().String("role", database.RoleAdmin, "Role to assign: admin or comum")
}

func runImport(out io.Writer, store database.Store, path string, showProgress bool) error {
	file, err := importer.Load(path)
	if err != nil {
		return err
	}

	var progress func(int)
	if showProgress {
		bar := progressbar.NewOptions(file.EntryCount(),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("importing"),
			progressbar.OptionShowCount(),
		)
		defer bar.Finish()
		progress = func(n int) { _ = bar.Add(n) }
	}

	summary, err := importer.Apply(store, file, progress)
	if err != nil {
		return err
	}

	verb := "Updated"
	if summary.Created {
		verb = "Created"
	}
	fmt.Fprintf(out, "\n%s contest %d (%s)\n", verb, summary.Contest.ID, summary.Contest.Name)
	for _, category := range models.Categories() {
		if n, ok := summary.Inserted[category]; ok {
			fmt.Fprintf(out, "- %s: %d results\n", category, n)
		}
	}
	fmt.Fprintf(out, "Total: %d results\n", summary.Total())
	return nil
}

func runLookup(out io.Writer, store database.Store, name string) error {
	records, err := store.ListAllResults()
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	found := matcher.FindAllByName(records, name)
	if len(found) == 0 {
		fmt.Fprintf(out, "No results for %q.\n", name)
		suggestions := matcher.SuggestNames(records, name, 5)
		if len(suggestions) > 0 {
			fmt.Fprintln(out, "Did you mean:")
			for _, s := range suggestions {
				fmt.Fprintf(out, "  %s (%d)\n", s.Name, s.Appearances)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CONTEST\tCATEGORY\tPOSITION\tSCORE\tSITUACAO")
	for _, r := range found {
		contest := strconv.FormatInt(r.ContestID, 10)
		if r.Contest != nil {
			contest = r.Contest.Name
		}
		situacao := r.Situacao()
		if situacao == "" {
			situacao = matcher.DefaultSituacao
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", contest, r.Category, r.Position, r.FinalScore, situacao)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	status := matcher.BatchHasPositiveStatus(records, []string{name})
	if status[name] {
		fmt.Fprintln(out, "Appointed in at least one contest.")
	} else {
		fmt.Fprintln(out, "Not appointed in any contest.")
	}
	return nil
}

func runCompare(out io.Writer, store database.Store, id1, id2 int64) error {
	entries, err := server.NewMatchService(store).Compare(id1, id2)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No candidates in common.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCONTEST %d\tCONTEST %d\n", id1, id2)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, formatAppearances(e.Contest1), formatAppearances(e.Contest2))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d candidates in common\n", len(entries))
	return nil
}

func formatAppearances(appearances []matcher.Appearance) string {
	parts := make([]string, 0, len(appearances))
	for _, a := range appearances {
		parts = append(parts, fmt.Sprintf("%s #%d (%s)", a.Category, a.Position, a.Situacao))
	}
	return strings.Join(parts, "; ")
}

func runPromote(out io.Writer, store database.Store, email, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != database.RoleAdmin && role != database.RoleComum {
		return fmt.Errorf("unknown role %q", role)
	}
	user, err := store.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", email, database.ErrNotFound)
	}
	user.Role = role
	if err := store.UpdateUser(user); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is now %s\n", user.Email, role)
	return nil
}
