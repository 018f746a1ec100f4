package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/openquota/openquota/internal/appupdate"
	"github.com/openquota/openquota/internal/config"
	"github.com/openquota/openquota/internal/core"
	"github.com/openquota/openquota/internal/httpx"
	"github.com/openquota/openquota/internal/providers"
	"github.com/openquota/openquota/internal/tui"
	"github.com/openquota/openquota/internal/version"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	if os.Getenv("OPENQUOTA_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	root := cobra.Command{
		Use:   "openquota [provider]",
		Short: "openquota reports remaining usage quota for your AI service accounts.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runOne(args[0])
			}
			return runAll()
		},
	}
	root.SilenceUsage = true

	root.AddCommand(newWatchCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAll() error {
	all := providers.All()
	runner := core.NewRunner(all, httpx.RequestTimeout)
	results := runner.QueryAll(context.Background())

	anySuccess := false
	for _, p := range all {
		printResult(p, results[p.ID()])
		anySuccess = anySuccess || results[p.ID()].Success
	}
	if !anySuccess {
		return fmt.Errorf("all providers failed")
	}
	return nil
}

func runOne(id string) error {
	p, ok := providers.ByID(id)
	if !ok {
		return fmt.Errorf("unknown provider %q (available: %v)", id, providers.IDs())
	}

	ctx, cancel := context.WithTimeout(context.Background(), httpx.RequestTimeout)
	defer cancel()

	res := p.Query(ctx)
	printResult(p, res)
	if !res.Success {
		return fmt.Errorf("%s query failed", id)
	}
	return nil
}

func printResult(p core.Provider, res core.QueryResult) {
	fmt.Println(headerStyle.Render("== " + p.Describe().Name + " =="))
	if res.Success {
		fmt.Println(res.Output)
	} else {
		fmt.Println(errStyle.Render(res.Error))
	}
	fmt.Println()
}

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Continuously watch quota across all providers.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			interval := time.Duration(cfg.UI.RefreshIntervalSeconds) * time.Second
			model := tui.New(providers.All(), interval, config.CredentialsDir())

			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the openquota version.",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(version.String())
			if !check {
				return nil
			}

			result, err := appupdate.Check(context.Background(), appupdate.CheckOptions{
				CurrentVersion: version.Version,
			})
			if err != nil {
				return fmt.Errorf("update check: %w", err)
			}
			if result.UpdateAvailable {
				fmt.Printf("update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
			} else if result.LatestVersion != "" {
				fmt.Println("up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check for a newer release")
	return cmd
}
