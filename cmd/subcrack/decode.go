package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/config"
	"github.com/verte-zerg/subcrack/internal/keygen"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/textfile"
)

var (
	analyzeColor      bool
	analyzeHistHeight int

	decodeCipher      string
	decodeCalibration string
	decodeProfile     string
	decodeKey         string
	decodeSet         string
	decodePlaceholder string
	decodeShowMapping bool

	encryptSeed        int64
	encryptDerangement bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [FILE]",
		Short: "Print letter frequencies of a text (stdin by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().BoolVar(&analyzeColor, "color", false, "force coloured output")
	cmd.Flags().IntVar(&analyzeHistHeight, "histogram-height", defaultHistHeight, "rows in the frequency histogram")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "histogram-height", &analyzeHistHeight, fileCfg.Display.HistogramHeight)
	if analyzeHistHeight <= 0 {
		return fmt.Errorf("--histogram-height must be > 0")
	}

	path := textfile.StdinPath
	if len(args) == 1 {
		path = args[0]
	}
	text, err := loadText(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	useColor := report.ShouldUseColor(out, analyzeColor)
	table := cipher.Count(text)
	if err := report.RenderFrequencyTable(out, "Frequency of "+displayPath(path), table, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if table.IsEmpty() {
		return nil
	}
	if err := report.RenderHistogram(out, table, analyzeHistHeight, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a ciphertext by frequency matching",
		Args:  cobra.NoArgs,
		RunE:  runDecodeCmd,
	}
	cmd.Flags().StringVar(&decodeCipher, "cipher", "", "ciphertext file (- for stdin)")
	cmd.Flags().StringVar(&decodeCalibration, "calibration", "", "plaintext file used to calibrate letter frequency")
	cmd.Flags().StringVar(&decodeProfile, "profile", "", "stored calibration profile")
	cmd.Flags().StringVar(&decodeKey, "key", "", "26-letter decoding key (cipher A..Z to plain), replaces derivation")
	cmd.Flags().StringVar(&decodeSet, "set", "", "manual overrides, e.g. X=E,Y=T")
	cmd.Flags().StringVar(&decodePlaceholder, "placeholder", defaultPlaceholder, "character shown for undecided letters")
	cmd.Flags().BoolVar(&decodeShowMapping, "show-mapping", false, "print the mapping to stderr")
	_ = cmd.MarkFlagRequired("cipher")
	return cmd
}

func runDecodeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "placeholder", &decodePlaceholder, fileCfg.Session.Placeholder)
	if !cmd.Flags().Changed("calibration") && !cmd.Flags().Changed("key") {
		applyStringConfig(cmd, "profile", &decodeProfile, fileCfg.Session.Profile)
	}

	placeholder, err := parsePlaceholder(decodePlaceholder)
	if err != nil {
		return err
	}
	cfg := model.DecodeConfig{
		CipherPath:      decodeCipher,
		CalibrationPath: decodeCalibration,
		Profile:         strings.TrimSpace(decodeProfile),
		Key:             strings.TrimSpace(decodeKey),
		Overrides:       decodeSet,
		Placeholder:     placeholder,
		ShowMapping:     decodeShowMapping,
	}
	if err := validateDecodeConfig(cfg); err != nil {
		return err
	}

	cipherText, err := loadText(cfg.CipherPath)
	if err != nil {
		return err
	}
	mapping, err := resolveMapping(cmd.Context(), cfg, cipher.Count(cipherText))
	if err != nil {
		return err
	}
	overrides, err := parseOverrides(cfg.Overrides)
	if err != nil {
		return err
	}
	for _, o := range overrides {
		if mapping, err = cipher.Override(mapping, o.letter, o.value); err != nil {
			return fmt.Errorf("invalid --set entry %c=%s: %w", o.letter, o.value, err)
		}
	}

	if cfg.ShowMapping {
		errOut := cmd.ErrOrStderr()
		if err := report.RenderMapping(errOut, mapping, cfg.Placeholder, report.ShouldUseColor(errOut, false)); err != nil {
			return fmt.Errorf("failed to write mapping: %w", err)
		}
		if _, err := fmt.Fprintf(errOut, "Key: %s\n", mapping.Key(cfg.Placeholder)); err != nil {
			return fmt.Errorf("failed to write mapping: %w", err)
		}
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), cipher.Apply(cipherText, mapping, cfg.Placeholder)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// resolveMapping picks the starting mapping: an explicit key, a derivation
// from a calibration source, or identity.
func resolveMapping(ctx context.Context, cfg model.DecodeConfig, cipherTable cipher.FrequencyTable) (cipher.Mapping, error) {
	switch {
	case cfg.Key != "":
		mapping, err := cipher.ParseKey(cfg.Key)
		if err != nil {
			return cipher.Mapping{}, fmt.Errorf("invalid --key: %w", err)
		}
		return mapping, nil
	case cfg.CalibrationPath != "":
		text, err := loadText(cfg.CalibrationPath)
		if err != nil {
			return cipher.Mapping{}, err
		}
		calibration := cipher.Count(text)
		if calibration.IsEmpty() {
			logErrf("no letters in %s; using identity mapping\n", displayPath(cfg.CalibrationPath))
		}
		return cipher.DeriveFromFrequencies(calibration, cipherTable), nil
	case cfg.Profile != "":
		profile, err := loadProfile(ctx, cfg.Profile)
		if err != nil {
			return cipher.Mapping{}, err
		}
		return cipher.DeriveFromFrequencies(profile.Table, cipherTable), nil
	}
	return cipher.Identity(), nil
}

func validateDecodeConfig(cfg model.DecodeConfig) error {
	if cfg.CipherPath == "" {
		return fmt.Errorf("--cipher is required")
	}
	sources := 0
	for _, set := range []bool{cfg.Key != "", cfg.CalibrationPath != "", cfg.Profile != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return fmt.Errorf("use only one of --key, --calibration and --profile")
	}
	if cfg.CipherPath == textfile.StdinPath && cfg.CalibrationPath == textfile.StdinPath {
		return fmt.Errorf("--cipher and --calibration cannot both read standard input")
	}
	return nil
}

type override struct {
	letter rune
	value  string
}

// parseOverrides reads comma-separated LETTER=VALUE pairs. An empty value marks
// the letter undecided.
func parseOverrides(raw string) ([]override, error) {
	var out []override
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("invalid --set entry %q: expected LETTER=VALUE", part)
		}
		letter, _ := utf8.DecodeRuneInString(key)
		out = append(out, override{letter: letter, value: strings.TrimSpace(value)})
	}
	return out, nil
}

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [FILE]",
		Short: "Encipher a text with a random substitution key (stdin by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEncryptCmd,
	}
	cmd.Flags().Int64Var(&encryptSeed, "seed", 0, "seed for a reproducible key")
	cmd.Flags().BoolVar(&encryptDerangement, "derangement", false, "never map a letter to itself")
	return cmd
}

func runEncryptCmd(cmd *cobra.Command, args []string) error {
	path := textfile.StdinPath
	if len(args) == 1 {
		path = args[0]
	}
	plain, err := loadText(path)
	if err != nil {
		return err
	}

	gen := keygen.New()
	if cmd.Flags().Changed("seed") {
		gen = keygen.NewSeeded(encryptSeed)
	}
	key := gen.Key()
	if encryptDerangement {
		key = gen.Derangement()
	}

	if _, err := fmt.Fprint(cmd.OutOrStdout(), keygen.Encipher(plain, key)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	errOut := cmd.ErrOrStderr()
	if _, err := fmt.Fprintf(errOut, "Key: %s\nDecode key: %s\n",
		key.Key(cipher.DefaultPlaceholder),
		key.Inverse().Key(cipher.DefaultPlaceholder),
	); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

func displayPath(path string) string {
	if path == textfile.StdinPath {
		return "standard input"
	}
	return path
}
