package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version, build information, and runtime details",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "swarmlint version %s\n", buildinfo.GetVersion())
			fmt.Fprintf(out, "  Commit:        %s\n", buildinfo.GetCommit())
			fmt.Fprintf(out, "  Built:         %s\n", buildinfo.GetDate())
			fmt.Fprintf(out, "  Go version:    %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
