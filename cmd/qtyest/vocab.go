package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/spf13/cobra"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Inspect the column vocabularies",
}

var vocabDumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Write the effective vocabularies as YAML, a starting point for overrides",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eff := registry.Effective()
		if err := project.SaveVocabularies(args[0], eff); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VOCABULARY\tROLES\tSOURCE")
		for _, name := range eff.Names() {
			source := "built-in"
			if registry.Overridden(name) {
				source = "override"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(eff.FindByName(name).Roles), source)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	},
}

var vocabShowCmd = &cobra.Command{
	Use:   "show NAME [ROLE]",
	Short: "Print the roles and keywords of a vocabulary",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		v, err := registry.Vocabulary(args[0])
		if err != nil {
			return err
		}
		roles := v.Roles
		if len(args) == 2 {
			r := v.FindRole(args[1])
			if r == nil {
				return fmt.Errorf("vocabulary %s has no role %q", v.Name, args[1])
			}
			roles = []model.Role{*r}
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ROLE\tKEYWORDS\tDENY")
		for _, r := range roles {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, strings.Join(r.Keywords, ", "), strings.Join(r.DenyExact, ", "))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.AddCommand(vocabDumpCmd, vocabShowCmd)
}
