package cmd

import (
	"fmt"
	"runtime"
	rtdebug "runtime/debug"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via -ldflags)
// These default values indicate a development build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Libraries whose versions decide what users see: the chat API, the browser
// driver and the WHOIS parser.
var reportedModules = []string{
	"github.com/go-telegram-bot-api/telegram-bot-api/v5",
	"github.com/chromedp/chromedp",
	"github.com/likexian/whois-parser",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display version information for sitecheck-bot and the libraries and browser it drives",
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		out := cmd.OutOrStdout()

		if !verbose {
			fmt.Fprintf(out, "sitecheck-bot version %s\n", Version)
			return
		}

		fmt.Fprintf(out, `sitecheck-bot Version Information:
  Version:    %s
  Git Commit: %s
  Build Date: %s
  Go Version: %s
  OS/Arch:    %s/%s
  Browser:    %s
`, Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH, browserDescription(botConfig.Screenshot.ExecPath))

		fmt.Fprintln(out, "  Modules:")
		deps := moduleVersions()
		for _, path := range reportedModules {
			v, ok := deps[path]
			if !ok {
				v = "unknown"
			}
			fmt.Fprintf(out, "    %s %s\n", path, v)
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
}

func browserDescription(execPath string) string {
	if execPath == "" {
		return "auto-detected Chrome/Chromium (headless)"
	}
	return execPath + " (headless)"
}

func moduleVersions() map[string]string {
	versions := map[string]string{}
	info, ok := rtdebug.ReadBuildInfo()
	if !ok {
		return versions
	}
	for _, dep := range info.Deps {
		if dep.Replace != nil {
			versions[dep.Path] = dep.Replace.Version
			continue
		}
		versions[dep.Path] = dep.Version
	}
	return versions
}
