package main

import (
	"context"

	"github.com/sandevgo/dazi/internal/config"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/internal/service/ui"
	"github.com/sandevgo/dazi/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug      bool
	configFile string
	modelFlag  string
)

var rootCmd = &cobra.Command{
	Use:     core.AppName,
	Short:   "搭子, a chat partner that remembers",
	Long:    `dazi chats with an OpenAI-compatible model and keeps a running memory of the conversation between sessions.`,
	Version: core.AppVersion,

	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default <runtime>/config.json)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model to use, \"auto\" to pick from the provider's list")

	CustomizeHelp(rootCmd)
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}

func CustomizeHelp(rootCmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleTitle", func(s string) string { return ui.TitleStyle.Render(s) })
	cobra.AddTemplateFunc("StyleUsage", func(s string) string { return ui.UsageStyle.Render(s) })
	cobra.AddTemplateFunc("StyleFlag", func(s string) string { return ui.FlagStyle.Render(s) })
	cobra.AddTemplateFunc("StyleDesc", func(s string) string { return ui.DescStyle.Render(s) })

	template := `
{{StyleTitle "USAGE"}}
  {{StyleUsage .UseLine}}
{{if gt (len .Commands) 0}}{{StyleTitle "AVAILABLE COMMANDS"}}
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding}} {{StyleDesc .Short}}{{end}}
{{end}}{{end}}
{{if .HasAvailableLocalFlags}}{{StyleTitle "FLAGS"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableInheritedFlags}}{{StyleTitle "GLOBAL FLAGS"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}
`
	rootCmd.SetHelpTemplate(template)
}
