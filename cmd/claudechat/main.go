// Package main provides the claudechat CLI application entry point.
// claudechat is a conversational assistant front end that forwards user
// messages to a remote LLM API while maintaining turn-by-turn context.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"claudechat/internal/config"
	"claudechat/internal/llm"
	"claudechat/internal/logger"
	"claudechat/internal/server"
	"claudechat/internal/session"
)

var (
	logLevel      string
	logFile       string
	modelID       string
	temperature   float64
	maxTokens     int
	systemPrompt  string
	historyWindow int
	serveAddr     string
	version       = "0.1.0" // This could be set at build time
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "claudechat",
	Short: "claudechat - a conversational LLM assistant",
	Long: `claudechat forwards your messages to a remote LLM API (Anthropic, OpenAI
or Gemini) while maintaining turn-by-turn conversation context.`,
	RunE: runChat, // Default behavior is the interactive chat loop
}

// chatCmd represents the chat command (explicit version of default behavior)
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Start an interactive chat session in the terminal.`,
	RunE:  runChat,
}

// serveCmd starts the HTTP shell
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat session over HTTP",
	Long:  `Expose one conversation session as a small JSON API.`,
	RunE:  runServe,
}

// modelsCmd lists the supported models from the embedded catalog
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models",
	RunE: func(_ *cobra.Command, _ []string) error {
		providers, err := config.Catalog()
		if err != nil {
			return err
		}
		for _, provider := range providers {
			fmt.Printf("%s:\n", provider.Provider)
			for _, model := range provider.Models {
				fmt.Printf("  %-32s %s\n", model.Name, model.DisplayName)
			}
		}
		return nil
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("claudechat v%s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&modelID, "model", config.DefaultModelID, "Model identifier")
	rootCmd.PersistentFlags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "Sampling temperature (0.0-1.0)")
	rootCmd.PersistentFlags().IntVar(&maxTokens, "max-tokens", config.DefaultMaxTokens, "Maximum response tokens (100-4000)")
	rootCmd.PersistentFlags().StringVar(&systemPrompt, "system-prompt", config.DefaultSystemPrompt, "System prompt framing the conversation")
	rootCmd.PersistentFlags().IntVar(&historyWindow, "history-window", 0, "Trailing messages sent per request (0 = full history)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address for the HTTP shell")

	for _, flag := range []string{"log-level", "log-file", "model", "temperature", "max-tokens", "system-prompt", "history-window"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if err := logger.Configure(logLevel, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

// newSession builds a session from the CLI flags: validated configuration,
// provider client from the factory, API key from the environment.
func newSession() (*session.Session, error) {
	config.LoadDotEnv()

	cfg, err := config.New(modelID, temperature, maxTokens, systemPrompt)
	if err != nil {
		return nil, err
	}
	if historyWindow != 0 {
		cfg, err = cfg.WithOverrides(config.Overrides{HistoryWindow: &historyWindow})
		if err != nil {
			return nil, err
		}
	}

	factory := llm.NewClientFactory()
	client, err := factory.GetClientForModel(cfg.ModelID)
	if err != nil {
		return nil, err
	}

	return session.New(client, cfg)
}

func runChat(_ *cobra.Command, _ []string) error {
	logger.Info("Starting claudechat", "version", version, "model", modelID)

	sess, err := newSession()
	if err != nil {
		return err
	}

	return runREPL(sess)
}

func runServe(_ *cobra.Command, _ []string) error {
	logger.Info("Starting claudechat server", "version", version, "model", modelID)

	sess, err := newSession()
	if err != nil {
		return err
	}

	return server.New(sess).Run(serveAddr)
}
