package main

import (
	"fmt"

	"github.com/aretw0/mosaic/internal/presentation/tui"
	"github.com/aretw0/mosaic/pkg/input"
	"github.com/spf13/cobra"
)

var defineCmd = &cobra.Command{
	Use:   "define <word>",
	Short: "Look a word up in the Merriam-Webster dictionary",
	Long: `Prints the definition rendered for the terminal.
The API key is read from the configured secret store (MOSAIC_MERRIAM_WEBSTER_API_KEY by default).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		cfg, _, rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		word, err := input.New(cfg.Server.MaxInputSize).Word(args[0])
		if err != nil {
			return err
		}
		def, err := rt.Service.Define(cmd.Context(), word)
		if err != nil {
			return err
		}

		if raw {
			_, err = fmt.Fprint(cmd.OutOrStdout(), def.Markdown())
			return err
		}
		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		text, err := tui.RenderDefinition(render, def)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(defineCmd)
	defineCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}
