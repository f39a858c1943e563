package cmd

import (
	"fmt"
	"sort"

	"cmis-harness/feature/types"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// typesCmd groups type definition commands
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Work with custom type definition files",
}

// typesValidateCmd represents the types validate command
var typesValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Parse and validate type definition files",
	Long: `Parses every file, applies the defaults and reports the resulting types.
Fails on the first malformed definition or on a type id declared twice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := types.LoadFiles(cmd.Context(), args...)
		if err != nil {
			return err
		}
		defs, err = types.SortByParent(defs)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(defs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		for _, def := range defs {
			props := make([]string, 0, len(def.PropertyDefinitions))
			for id := range def.PropertyDefinitions {
				props = append(props, id)
			}
			sort.Strings(props)
			fmt.Fprintf(out, "%s (parent %s, %d properties)\n", def.ID, def.ParentTypeID, len(props))
			for _, id := range props {
				p := def.PropertyDefinitions[id]
				fmt.Fprintf(out, "  %s %s %s\n", id, p.PropertyType, p.Cardinality)
			}
		}
		fmt.Fprintf(out, "%d types OK\n", len(defs))
		return nil
	},
}

func init() {
	typesValidateCmd.Flags().Bool("json", false, "print the normalized definitions as JSON")
	typesCmd.AddCommand(typesValidateCmd)
	RootCmd.AddCommand(typesCmd)
}
