package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Lllllllleong/portfolioflow/internal/achievements"
	"github.com/Lllllllleong/portfolioflow/internal/models"
	"github.com/Lllllllleong/portfolioflow/internal/services"
	"github.com/spf13/cobra"
)

var achievementsCommand = &cobra.Command{
	Use:   "achievements",
	Short: "Submit or show a user's achievements",
}

var achievementsSubmitCommand = &cobra.Command{
	Use:   "submit",
	Short: "Validate and merge-write an achievements form from a JSON file",
	Long: `Reads a JSON document with academicAchievements, certifications, projects
and extraCurricular arrays, validates every entry and saves it for --user.
Categories missing from the file are saved as empty.`,
	RunE: runAchievementsSubmit,
}

var achievementsShowCommand = &cobra.Command{
	Use:   "show",
	Short: "Print the saved achievements for a user",
	RunE:  runAchievementsShow,
}

var (
	achievementsUser string
	achievementsFile string
)

func init() {
	achievementsCommand.PersistentFlags().StringVarP(&achievementsUser, "user", "u", "", "User ID owning the achievements")
	achievementsSubmitCommand.Flags().StringVarP(&achievementsFile, "file", "f", "", "Path to the achievements JSON file")
	_ = achievementsSubmitCommand.MarkFlagRequired("file")

	achievementsCommand.AddCommand(achievementsSubmitCommand, achievementsShowCommand)
	rootCmd.AddCommand(achievementsCommand)
}

func readForm(path string) (*achievements.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc achievements.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &doc, nil
}

func runAchievementsSubmit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	form, err := readForm(achievementsFile)
	if err != nil {
		return err
	}

	backend, err := newBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	fn := services.NewAchievementsWithBackend(backend, services.LoadAchievementsConfig())
	res, err := fn.Process(ctx, &models.AchievementsRequest{UserID: achievementsUser, Form: form, Submit: true})
	if err != nil {
		return err
	}

	for _, c := range achievements.Categories() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-26s %d\n", c.Title()+":", res.Form.Count()[c])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved for %s at %s\n", res.UserID, res.Form.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func runAchievementsShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	backend, err := newBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	fn := services.NewAchievementsWithBackend(backend, services.LoadAchievementsConfig())
	res, err := fn.Load(ctx, &models.LoadAchievementsRequest{UserID: achievementsUser})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res.Form)
}
