package cmd

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build information injected through ldflags
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// version needs no config or API key
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moviecat %s (built %s)\n", normalizeVersion(version), buildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// normalizeVersion returns a v-prefixed semantic version, or the input
// unchanged when it is not one (e.g. "dev")
func normalizeVersion(v string) string {
	parsed, err := semver.ParseTolerant(strings.TrimSpace(v))
	if err != nil {
		return v
	}
	return "v" + parsed.String()
}
