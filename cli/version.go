package cli

import (
	"fmt"
	"runtime"

	"github.com/safedep/tally/internal/version"
	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, _ = fmt.Fprintln(out, version.Version)
				return nil
			}

			_, _ = fmt.Fprintf(out, "tally %s\n", version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, "  commit    %s\n", version.Commit)
			}
			_, _ = fmt.Fprintf(out, "  runtime   %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")

	return cmd
}
