package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var objectsFlags connFlags

// objectsCmd lists the views and functions the backend exposes for the database.
var objectsCmd = &cobra.Command{
	Use:     "objects",
	Aliases: []string{"ls"},
	Short:   "List the views and functions available for charting",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closer, ok, err := startFlow(cmd.Context(), objectsFlags, true)
		if err != nil || !ok {
			return err
		}
		defer closer()

		objects := c.Objects()
		if len(objects) == 0 {
			fmt.Println("No views or functions found.")
			return nil
		}
		td := pterm.TableData{{"#", "Name"}}
		for i, o := range objects {
			td = append(td, []string{fmt.Sprint(i + 1), o})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(td).Render()
	},
}

func init() {
	rootCmd.AddCommand(objectsCmd)
	objectsFlags.register(objectsCmd)
}
