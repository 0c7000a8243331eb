package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/subcrack/internal/cipher"
	"github.com/verte-zerg/subcrack/internal/model"
	"github.com/verte-zerg/subcrack/internal/report"
	"github.com/verte-zerg/subcrack/internal/textfile"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage stored calibration profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "save NAME FILE",
		Short: "Count letters in FILE and store them as profile NAME",
		Args:  cobra.ExactArgs(2),
		RunE:  runProfileSaveCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE:  runProfileListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Print the letter frequencies of a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileDeleteCmd,
	})
	return cmd
}

func runProfileSaveCmd(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]
	text, err := loadText(path)
	if err != nil {
		return err
	}
	table := cipher.Count(text)
	if table.IsEmpty() {
		return fmt.Errorf("no letters found in %s", displayPath(path))
	}
	source := path
	if path != textfile.StdinPath {
		if abs, err := filepath.Abs(path); err == nil {
			source = abs
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	profile := model.Profile{
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Table:     table,
	}
	if err := st.SaveProfile(cmd.Context(), profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	logErrf("Saved profile %s (%s letters)\n", name, humanize.Comma(int64(profile.Letters())))
	return nil
}

func runProfileListCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	profiles, err := st.ListProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if err := report.RenderProfiles(cmd.OutOrStdout(), profiles); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runProfileShowCmd(cmd *cobra.Command, args []string) error {
	profile, err := loadProfile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	useColor := report.ShouldUseColor(out, false)
	title := fmt.Sprintf("Profile %s (%s, saved %s)", profile.Name, profile.Source, humanize.Time(profile.CreatedAt))
	if err := report.RenderFrequencyTable(out, title, profile.Table, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderHistogram(out, profile.Table, defaultHistHeight, useColor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runProfileDeleteCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteProfile(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	logErrln("Deleted profile", args[0])
	return nil
}
