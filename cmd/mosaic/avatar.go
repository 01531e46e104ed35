package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/presentation/tui"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errTerminalOutput = errors.New("refusing to write a binary image to a terminal; use --out or --preview")

var avatarCmd = &cobra.Command{
	Use:   "avatar <identifier>",
	Short: "Render the avatar for an identifier",
	Long: `Writes the avatar image to --out (or stdout when it is not a terminal).
With --preview the avatar is drawn in the terminal as colored blocks instead.
When --format is not set it is taken from the --out extension, then from the config.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		formatName, _ := cmd.Flags().GetString("format")
		preview, _ := cmd.Flags().GetBool("preview")

		cfg, logger, rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if preview {
			grid, err := rt.Service.Generator().Grid(args[0])
			if err != nil {
				return err
			}
			return tui.Preview(cmd.OutOrStdout(), termenv.ColorProfile(), grid, cfg.Avatar.BlockSize)
		}

		format, err := resolveFormat(formatName, out)
		if err != nil {
			return err
		}

		var res *mosaic.AvatarResult
		write := func(w io.Writer) error {
			res, err = rt.Service.WriteAvatar(cmd.Context(), args[0], format, w)
			return err
		}
		if out == "" || out == "-" {
			w := cmd.OutOrStdout()
			if isTerminal(w) {
				return errTerminalOutput
			}
			err = write(w)
		} else {
			err = writeFile(out, write)
		}
		if err != nil {
			return err
		}
		logger.Debug("Avatar written", "seed", res.Seed, "format", res.Format, "bytes", len(res.Data), "out", out)
		return nil
	},
}

// writeFile creates path and fills it with write. On failure the partial
// file is removed.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

// resolveFormat picks the explicit format, else the one named by the output
// extension. Empty means the configured format.
func resolveFormat(name, out string) (domain.Format, error) {
	if name != "" {
		f, err := domain.ParseFormat(name)
		if err != nil {
			return "", fmt.Errorf("%w: %q", err, name)
		}
		return f, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		if f, err := domain.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return "", nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	rootCmd.AddCommand(avatarCmd)

	avatarCmd.Flags().StringP("out", "o", "", "Output file ('-' for stdout)")
	avatarCmd.Flags().StringP("format", "f", "", "Image format: png, gif, bmp, tiff")
	avatarCmd.Flags().Bool("preview", false, "Draw the avatar in the terminal")
}
