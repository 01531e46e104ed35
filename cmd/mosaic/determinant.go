package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var determinantCmd = &cobra.Command{
	Use:     "determinant <matrix>",
	Aliases: []string{"det"},
	Short:   "Compute the exact determinant of a matrix literal",
	Example: `  mosaic determinant "[[1, 2], [3, 4]]"
  mosaic det "[[1/2, 0], [0, 0.5]]"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		value, err := rt.Service.Determinant(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
		return err
	},
}

func init() {
	rootCmd.AddCommand(determinantCmd)
}
