package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/studyhub"
	"github.com/aretw0/studyhub/pkg/hub"
)

var (
	verbose    bool
	assumeYes  bool
	configPath string
	outputFmt  string

	// cfg is resolved in PersistentPreRunE.
	cfg studyhub.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studyhub",
	Short: "A personal study dashboard kept in a local vault",
	Long: `Study Hub keeps notes, to-dos, homework, a weekly timetable, links and PDFs
in a local vault. Every section is stored under one key, either as JSON files
or in a SQLite database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = studyhub.LoadConfig(configPath, cmd.Root().PersistentFlags())
		if err != nil {
			return err
		}

		level := cfg.LogLevel()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
		slog.SetDefault(logger)

		switch outputFmt {
		case outputText, outputJSON, outputYAML:
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFmt)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVarP(&outputFmt, "output", "o", outputText, "Output format: text, json or yaml")
	flags.String("vault", "", "Vault directory (default: nearest vault above the working directory)")
	flags.String("adapter", "fs", "Storage adapter: fs, sqlite or memory")
	flags.String("sqlite-path", "", "Database file for the sqlite adapter")
	flags.Bool("readonly", false, "Open the vault read-only")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Int64("pdf-warn-bytes", hub.DefaultPDFWarnBytes, "Warn before storing PDFs larger than this many bytes")
}

// session is an opened vault plus the editor holding the active note.
type session struct {
	*studyhub.App
	vault  string
	editor *hub.MemoryEditor
}

// openApp opens the configured vault.
func openApp(cmd *cobra.Command) (*session, error) {
	vault, err := vaultPath()
	if err != nil {
		return nil, err
	}

	editor := &hub.MemoryEditor{}
	opts := append(cfg.Options(),
		studyhub.WithLogger(slog.Default()),
		studyhub.WithNotifier(newNotifier(cmd)),
		studyhub.WithHubOptions(hub.WithEditor(editor)),
	)

	app, err := studyhub.New(vault, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault %s: %w", vault, err)
	}
	return &session{App: app, vault: vault, editor: editor}, nil
}

// vaultPath returns the configured vault, else the nearest vault root above
// the working directory, else the working directory.
func vaultPath() (string, error) {
	if cfg.Vault != "" {
		return cfg.Vault, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := studyhub.FindVaultRoot(cwd); err == nil {
		return root, nil
	}
	return cwd, nil
}
