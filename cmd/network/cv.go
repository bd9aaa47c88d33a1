package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samlatif/network/internal/cvdata"
	"github.com/samlatif/network/internal/cvfilter"
	"github.com/samlatif/network/internal/observability"
	"github.com/samlatif/network/internal/schemas"
	"github.com/samlatif/network/internal/types"
	"github.com/spf13/cobra"
)

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Work with CV datasets offline",
}

var cvFilterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Apply skill filters to a dataset and print the result",
	Long: `Runs the skill filter engine over a dataset without a database. Prints every
job's enriched stack with its matched and filtered flags, followed by the best match.`,
	RunE: runCVFilter,
}

var cvValidateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a dataset against the CV schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runCVValidate,
}

var (
	cvFilterData     string
	cvFilterTags     []string
	cvFilterRow      string
	cvFilterCategory string
	cvFilterJSON     bool
)

func init() {
	cvFilterCmd.Flags().StringVar(&cvFilterData, "data", "", "Path to CV dataset (.json, .yaml); embedded dataset when empty")
	cvFilterCmd.Flags().StringArrayVarP(&cvFilterTags, "tag", "t", nil, "Filter tag (repeatable)")
	cvFilterCmd.Flags().StringVar(&cvFilterRow, "row", "", "Tech row items to add, as clicked in the skills table")
	cvFilterCmd.Flags().StringVar(&cvFilterCategory, "category", string(types.CategoryAll), "Skill category for the stack-at-a-glance listing")
	cvFilterCmd.Flags().BoolVar(&cvFilterJSON, "json", false, "Print the result as JSON")

	cvCmd.AddCommand(cvFilterCmd, cvValidateCmd)
	rootCmd.AddCommand(cvCmd)
}

type filterResult struct {
	Active    []string              `json:"active"`
	Banner    string                `json:"banner"`
	Effect    cvfilter.Effect       `json:"effect"`
	BestMatch *cvfilter.BestMatch   `json:"bestMatch"`
	Jobs      []cvfilter.JobState   `json:"jobs"`
	Skills    []cvfilter.SkillState `json:"skills"`
}

func runCVFilter(cmd *cobra.Command, _ []string) error {
	category := types.SkillCategory(cvFilterCategory)
	if !category.IsValid() {
		return fmt.Errorf("unknown category %q", cvFilterCategory)
	}

	data, err := loadDataset(cvFilterData)
	if err != nil {
		return err
	}

	result := applyFilters(data, cvFilterTags, cvFilterRow, category)

	out := cmd.OutOrStdout()
	if cvFilterJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(out).PrintFilterResult(result.Active, result.Jobs, result.BestMatch)
	return nil
}

func applyFilters(data *types.CVData, tags []string, row string, category types.SkillCategory) filterResult {
	ctrl := cvfilter.NewController(cvfilter.NewEngine(cvfilter.RulesFrom(data)), data)
	effect := ctrl.AddMany(cvfilter.CleanTags(tags))
	if row != "" {
		effect = ctrl.AddTechRow(row)
	}

	result := filterResult{
		Active: ctrl.Active(),
		Banner: ctrl.BannerLabel(),
		Effect: effect,
		Jobs:   ctrl.JobStates(),
		Skills: ctrl.SkillStates(category),
	}
	if best, ok := ctrl.BestMatch(); ok {
		result.BestMatch = &best
	}
	return result
}

func runCVValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := cvdata.LoadFile(path)

	printer := observability.NewPrinter(cmd.OutOrStdout())
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		printer.PrintValidationErrors(path, validationErr.Errors)
		return fmt.Errorf("dataset %s is invalid", path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", path)
	printer.PrintDataset(data)
	return nil
}
