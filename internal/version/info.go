// Package version provides build information and the version command.
package version

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables injected via ldflags:
//
//	-X github.com/Jaxiii/ore-cli/internal/version.Version={{.Version}}
//	-X github.com/Jaxiii/ore-cli/internal/version.GitCommit={{.FullCommit}}
//	-X github.com/Jaxiii/ore-cli/internal/version.BuildDate={{.Date}}
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info contains version and build information.
type Info struct {
	Name      string   `json:"name" yaml:"name"`
	Version   string   `json:"version" yaml:"version"`
	GitCommit string   `json:"commit" yaml:"commit"`
	BuildDate string   `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	GoVersion string   `json:"go" yaml:"go"`
	Program   string   `json:"program,omitempty" yaml:"program,omitempty"`
	BuildDeps []string `json:"build_deps,omitempty" yaml:"build_deps,omitempty"`
}

// NewInfo creates an Info for the named binary. program is the on-chain
// program the binary targets and may be empty.
func NewInfo(name, program string) Info {
	return Info{
		Name:      name,
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: fmt.Sprintf("go version %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
		Program:   program,
	}
}

// WithBuildDeps populates the module dependencies from runtime/debug.
func (i Info) WithBuildDeps() Info {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return i
	}

	deps := make([]string, 0, len(buildInfo.Deps))
	for _, dep := range buildInfo.Deps {
		entry := fmt.Sprintf("%s@%s", dep.Path, dep.Version)
		if dep.Replace != nil {
			entry = fmt.Sprintf("%s => %s@%s", entry, dep.Replace.Path, dep.Replace.Version)
		}
		deps = append(deps, entry)
	}
	sort.Strings(deps)
	i.BuildDeps = deps

	return i
}

// String returns a short human readable summary.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s version %s\n", i.Name, i.Version)
	fmt.Fprintf(&sb, "  commit:     %s\n", i.GitCommit)
	fmt.Fprintf(&sb, "  build date: %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  go:         %s\n", i.GoVersion)
	if i.Program != "" {
		fmt.Fprintf(&sb, "  program:    %s\n", i.Program)
	}
	return sb.String()
}

// Write renders i to w as text, YAML (long) or JSON.
func (i Info) Write(w io.Writer, long, asJSON bool) error {
	switch {
	case asJSON:
		data, err := json.MarshalIndent(i, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case long:
		data, err := yaml.Marshal(i)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := io.WriteString(w, i.String())
		return err
	}
}

// NewCmd creates the version command.
func NewCmd(name, program string) *cobra.Command {
	var (
		long       bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version information including build details. Use --long for dependency info.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := NewInfo(name, program)
			if long {
				info = info.WithBuildDeps()
			}
			return info.Write(cmd.OutOrStdout(), long, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Show detailed version info including build dependencies")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info in JSON format")

	return cmd
}
