package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/integrail/snapsearch/internal/build"
	"github.com/integrail/snapsearch/pkg/browser"
	"github.com/integrail/snapsearch/pkg/browser/chrome"
	"github.com/integrail/snapsearch/pkg/client"
	"github.com/integrail/snapsearch/pkg/config"
	"github.com/integrail/snapsearch/pkg/logger"
	"github.com/integrail/snapsearch/pkg/search"
	"github.com/integrail/snapsearch/pkg/sites"
	"github.com/integrail/snapsearch/pkg/ui"
	"github.com/integrail/snapsearch/pkg/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg          *config.Config
	log          *logger.Logger
	orchestrator *search.Orchestrator
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		a          = &app{}
	)
	registry := sites.NewRegistry()

	rootCmd := &cobra.Command{
		Use:           "snapsearch",
		Version:       build.Version,
		Short:         "Search a website in a browser and screenshot the results",
		Long:          "Opens a browser, searches one of the supported websites, checks that results appeared and saves a screenshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath, cmd, registry)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			form := ui.NewForm(cmd.Context(), a.orchestrator, registry.Names(), registry.Default())
			_, err := tea.NewProgram(form).Run()
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (yaml, json or toml)")
	flags.StringP("driver", "d", config.DriverChrome, "Browser driver: chrome or baas")
	flags.Bool("headless", false, "Run chrome without a window")
	flags.String("chrome-path", "", "Path to the chrome executable")
	flags.StringSlice("chrome-flag", []string{}, "Extra chrome switches (name=value)")
	flags.Duration("wait-timeout", search.DefaultWaitTimeout, "Max time to wait for the search field and for the results")
	flags.String("screenshot-dir", "", "Directory screenshots are saved to (default: working directory)")
	flags.StringP("url", "u", "https://baas.integrail.ai", "BaaS backend URL")
	flags.StringP("key", "k", "", "BaaS API Key")
	flags.BoolP("proxy", "p", true, "Use proxy (baas)")
	flags.String("session-timeout", "10m", "Max session length (baas)")
	flags.String("message-timeout", "30s", "Max time to wait for each browser command (baas)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-output", "file", "Log output: console, file or both")
	flags.String("log-file", "snapsearch.log", "Log file")

	rootCmd.AddCommand(newSearchCmd(a), newSitesCmd(registry))
	return rootCmd
}

func newSearchCmd(a *app) *cobra.Command {
	var site string
	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Run one search without the interactive form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome := a.orchestrator.Execute(cmd.Context(), strings.Join(args, " "), site)
			if !outcome.Succeeded() {
				fmt.Fprintln(cmd.ErrOrStderr(), outcome.String())
				return outcome.Err()
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&site, "site", "s", sites.DefaultSite, "Website to search")
	return cmd
}

func newSitesCmd(registry *sites.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List the supported websites",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range registry.Names() {
				site, _ := registry.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-28s %s\n", site.Name, site.BaseURL, site.SearchField)
			}
		},
	}
}

func (a *app) init(configPath string, cmd *cobra.Command, registry *sites.Registry) error {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return errors.Wrapf(err, "failed to init logger")
	}
	a.cfg = cfg
	a.log = log
	a.orchestrator = search.New(registry, newDriver(cfg, log.Logger),
		search.WithLogger(log.Logger),
		search.WithWaitTimeout(cfg.Search.WaitTimeout),
		search.WithScreenshotDir(cfg.Search.ScreenshotDir),
	)
	return nil
}

func newDriver(cfg *config.Config, log *zap.Logger) browser.Driver {
	if cfg.Browser.Driver == config.DriverBaas {
		return client.NewDriver(cfg.Baas, client.ZapReporter(log.Named("baas")))
	}
	return chrome.NewDriver(chrome.Options{
		Headless: cfg.Browser.Headless,
		ExecPath: cfg.Browser.ExecPath,
		Width:    cfg.Browser.Width,
		Height:   cfg.Browser.Height,
		Flags:    util.SliceToMap(cfg.Browser.Flags),
	})
}
