// Package main provides the CLI entrypoint for subcrack.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/store"
	"github.com/verte-zerg/subcrack/internal/textfile"
	"github.com/verte-zerg/subcrack/internal/tui"
	"github.com/verte-zerg/subcrack/internal/watch"
)

const (
	defaultPlaceholder = string(cipher.DefaultPlaceholder)
	defaultDebounce    = watch.DefaultDebounce
	defaultHistHeight  = report.DefaultHistogramHeight
)

var (
	workspaceCalibration string
	workspaceCipher      string
	workspaceProfile     string
	workspaceWatch       bool
	workspaceDebounce    time.Duration
	workspacePlaceholder string
	workspaceHistHeight  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "subcrack",
		Short:         "Frequency analysis workbench for substitution ciphers",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runWorkspaceCmd,
	}

	rootCmd.Flags().StringVar(&workspaceCalibration, "calibration", "", "plaintext file used to calibrate letter frequency")
	rootCmd.Flags().StringVar(&workspaceCipher, "cipher", "", "ciphertext file to decode")
	rootCmd.Flags().StringVar(&workspaceProfile, "profile", "", "stored calibration profile")
	rootCmd.Flags().BoolVar(&workspaceWatch, "watch", false, "reload input files when they change")
	rootCmd.Flags().DurationVar(&workspaceDebounce, "debounce", defaultDebounce, "quiet period before text edits are applied")
	rootCmd.Flags().StringVar(&workspacePlaceholder, "placeholder", defaultPlaceholder, "character shown for undecided letters")
	rootCmd.Flags().IntVar(&workspaceHistHeight, "histogram-height", defaultHistHeight, "rows per frequency histogram")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runWorkspaceCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "placeholder", &workspacePlaceholder, fileCfg.Session.Placeholder)
	applyDurationMsConfig(cmd, "debounce", &workspaceDebounce, fileCfg.Session.DebounceMs)
	applyIntConfig(cmd, "histogram-height", &workspaceHistHeight, fileCfg.Display.HistogramHeight)
	// A calibration file on the command line wins over a configured default profile.
	if !cmd.Flags().Changed("calibration") {
		applyStringConfig(cmd, "profile", &workspaceProfile, fileCfg.Session.Profile)
	}

	placeholder, err := parsePlaceholder(workspacePlaceholder)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Placeholder:     placeholder,
		Debounce:        workspaceDebounce,
		Profile:         strings.TrimSpace(workspaceProfile),
		HistogramHeight: workspaceHistHeight,
		CalibrationPath: workspaceCalibration,
		CipherPath:      workspaceCipher,
		Watch:           workspaceWatch,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var in tui.Inputs
	if cfg.CalibrationPath != "" {
		if in.CalibrationText, err = loadText(cfg.CalibrationPath); err != nil {
			return err
		}
	}
	if cfg.CipherPath != "" {
		if in.CipherText, err = loadText(cfg.CipherPath); err != nil {
			return err
		}
	}
	if cfg.Profile != "" {
		profile, err := loadProfile(ctx, cfg.Profile)
		if err != nil {
			return err
		}
		in.Profile = &profile
	}

	workspace := tui.NewModel(cfg, in)
	program := tea.NewProgram(workspace, tea.WithAltScreen())

	if cfg.Watch {
		watcher, err := startWatcher(ctx, cfg, program)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := watcher.Close(); cerr != nil {
				logErrf("failed to stop file watcher: %v\n", cerr)
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func startWatcher(ctx context.Context, cfg model.Config, program *tea.Program) (*watch.Watcher, error) {
	watcher, err := watch.New(cfg.Debounce,
		func(field watch.Field, text string) {
			program.Send(tui.FileLoadedMsg{Field: field, Text: text})
		},
		func(err error) {
			program.Send(tui.WatchErrorMsg{Err: err})
		},
	)
	if err != nil {
		return nil, err
	}
	targets := []struct {
		field watch.Field
		path  string
	}{
		{watch.FieldCalibration, cfg.CalibrationPath},
		{watch.FieldCipher, cfg.CipherPath},
	}
	for _, target := range targets {
		if target.path == "" {
			continue
		}
		if err := watcher.Add(target.field, target.path); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	watcher.Start(ctx)
	return watcher, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func loadText(path string) (string, error) {
	text, err := textfile.Load(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return text, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func loadProfile(ctx context.Context, name string) (model.Profile, error) {
	st, err := openStore()
	if err != nil {
		return model.Profile{}, err
	}
	defer closeStore(st)
	profile, err := st.GetProfile(ctx, name)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load profile %q: %w", name, err)
	}
	return profile, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationMsConfig(cmd *cobra.Command, name string, target *time.Duration, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = time.Duration(*value) * time.Millisecond
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# subcrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# placeholder = %q        # Character shown for undecided letters
# debounce-ms = %d       # Quiet period before text edits are applied
# profile = "english"     # Calibration profile loaded at startup

[display]
# histogram-height = %d   # Rows per frequency histogram
`,
		defaultPlaceholder,
		defaultDebounce.Milliseconds(),
		defaultHistHeight,
	)
}

// parsePlaceholder accepts a single printable rune that is not an alphabet letter.
func parsePlaceholder(value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("--placeholder must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError || cipher.IsLetter(r) || !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return 0, fmt.Errorf("--placeholder must be a printable non-letter character")
	}
	return r, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Debounce < 0 {
		return fmt.Errorf("--debounce must be >= 0")
	}
	if cfg.HistogramHeight <= 0 {
		return fmt.Errorf("--histogram-height must be > 0")
	}
	if cfg.CalibrationPath != "" && cfg.Profile != "" {
		return fmt.Errorf("--calibration and --profile cannot be used together")
	}
	if cfg.CalibrationPath == textfile.StdinPath || cfg.CipherPath == textfile.StdinPath {
		return fmt.Errorf("standard input cannot feed the interactive workspace; pass a file path")
	}
	if cfg.Watch && cfg.CalibrationPath == "" && cfg.CipherPath == "" {
		return fmt.Errorf("--watch needs --calibration or --cipher")
	}
	if cfg.CalibrationPath != "" && cfg.CipherPath != "" && samePath(cfg.CalibrationPath, cfg.CipherPath) {
		return fmt.Errorf("--calibration and --cipher must be different files")
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
