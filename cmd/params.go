package cmd

import (
	"fmt"

	"chartviz/cli/internal/charts"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var paramsFlags connFlags

// paramsCmd shows the inputs a function takes. Views take none.
var paramsCmd = &cobra.Command{
	Use:   "params <object>",
	Short: "Show the parameters of a view or function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, closer, ok, err := startFlow(ctx, paramsFlags, true)
		if err != nil || !ok {
			return err
		}
		defer closer()

		var res charts.ParameterResult
		err = withSpinner("Loading parameters of "+args[0], func() error {
			var serr error
			res, serr = c.SelectObject(ctx, args[0])
			return serr
		})
		if err != nil {
			return err
		}
		printNotices(c)

		switch res.Outcome {
		case charts.ParametersFound:
			td := pterm.TableData{{"Parameter", "Type"}}
			for _, p := range res.Parameters {
				td = append(td, []string{p.Name, p.Type})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(td).Render()
		case charts.ParametersNotApplicable:
			fmt.Printf("%s takes no parameters.\n", args[0])
			return nil
		default:
			return explainFailure(res.Err, "loading parameters")
		}
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsFlags.register(paramsCmd)
}
