package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/killallgit/audionote/api/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Set at build time with -ldflags "-X github.com/killallgit/audionote/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit and build time of this binary
along with the Go runtime it was built with.`,
	Example: `  audionote version
  audionote version --short
  audionote version --format json`,
	RunE: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "print just the version number")
	versionCmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")
}

func buildInfo() types.BuildInfo {
	return types.BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
}

type versionReport struct {
	types.BuildInfo `yaml:",inline"`
	GoVersion       string `json:"go_version" yaml:"go_version"`
	Platform        string `json:"platform" yaml:"platform"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if short, _ := cmd.Flags().GetBool("short"); short {
		fmt.Fprintf(out, "v%s\n", Version)
		return nil
	}

	format, _ := cmd.Flags().GetString("format")
	return writeVersion(out, format, versionReport{
		BuildInfo: buildInfo(),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	})
}

func writeVersion(out io.Writer, format string, report versionReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		return yaml.NewEncoder(out).Encode(report)
	case "text", "":
		rule := strings.Repeat("-", 40)
		fmt.Fprintln(out, "Audio Notes")
		fmt.Fprintln(out, rule)
		fmt.Fprintf(out, "Version:      v%s\n", report.Version)
		fmt.Fprintf(out, "Git Commit:   %s\n", report.GitCommit)
		fmt.Fprintf(out, "Build Time:   %s\n", report.BuildTime)
		fmt.Fprintf(out, "Go Version:   %s\n", report.GoVersion)
		fmt.Fprintf(out, "OS/Arch:      %s\n", report.Platform)
		fmt.Fprintln(out, rule)
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
