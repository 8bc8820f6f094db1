package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordquest/internal/skillmap"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Browse the skill taxonomy and weight table",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills (optionally filtered by domain)",
	RunE: func(cmd *cobra.Command, args []string) error {
		domain, _ := cmd.Flags().GetString("domain")

		skills := skillmap.Skills()
		if domain != "" {
			skills = skillmap.SkillsByDomain(skillmap.Domain(domain))
			if len(skills) == 0 {
				return fmt.Errorf("no skills found for domain %q", domain)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Taxonomy %s\n\n", skillmap.TaxonomyVersion)
		fmt.Fprintf(out, "%-30s  %-28s  %s\n", "ID", "Label", "Domain")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, s := range skills {
			fmt.Fprintf(out, "%-30s  %-28s  %s\n", s.ID, s.Label, skillmap.DomainDisplayName(s.Domain))
		}
		fmt.Fprintf(out, "\n%d skills\n", len(skills))
		return nil
	},
}

var skillsWeightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show or validate a feature-to-skill weight table",
	Long: `Show the weight table in use (the embedded default, or skills.weights
from the config). Pass --file to validate another table (.json, .toml or
.yaml) without using it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		var (
			table *skillmap.Table
			err   error
			src   = "embedded default"
		)
		switch {
		case file != "":
			table, err = skillmap.LoadTable(file)
			src = file
		case cfg.Skills.Weights != "":
			table, err = skillmap.LoadTable(cfg.Skills.Weights)
			src = cfg.Skills.Weights
		default:
			table = skillmap.DefaultTable()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Source:   %s\n", src)
		fmt.Fprintf(out, "Version:  %s (taxonomy %s)\n", table.Version, table.TaxonomyVersion)
		if def := skillmap.DefaultTable(); table != def && table.Newer(def) {
			fmt.Fprintf(out, "          newer than the embedded default %s\n", def.Version)
		}
		fmt.Fprintln(out)

		for _, f := range skillmap.AllFeatures() {
			row, ok := table.Weights[f]
			if !ok || len(row) == 0 {
				continue
			}
			fmt.Fprintln(out, f)
			ids := make([]string, 0, len(row))
			for id := range row {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Fprintf(out, "  %-30s %+.3f\n", id, row[id])
			}
		}

		if unknown := table.UnknownSkills(); len(unknown) > 0 {
			fmt.Fprintf(out, "\nIgnored (not in taxonomy): %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func init() {
	skillsListCmd.Flags().String("domain", "", "Filter by domain (e.g. decoding)")
	skillsWeightsCmd.Flags().String("file", "", "Weight table to validate and show")

	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsWeightsCmd)
}
