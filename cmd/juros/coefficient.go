package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/warp/juros-engine/api"
	"github.com/warp/juros-engine/calc"
)

var coefficientJSON bool

var coefficientCmd = &cobra.Command{
	Use:   "coefficient YEAR [VALUE]",
	Short: "Look up a devaluation coefficient",
	Long: `Prints the coefficient that updates a value from YEAR to the table's
reference year. With VALUE, also prints VALUE multiplied by the coefficient,
rounded to cents.`,
	Example: `  juros coefficient 1974
  juros coefficient 1974 100`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCoefficient,
}

func init() {
	rootCmd.AddCommand(coefficientCmd)
	coefficientCmd.Flags().BoolVar(&coefficientJSON, "json", false, "print JSON")
}

func runCoefficient(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("year must be an integer: %q", args[0])
	}

	_, table, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	coef := table.CoefficientFor(year)
	dto := api.CoefficientDTO{
		Year:          year,
		ReferenceYear: table.ReferenceYear,
		Coefficient:   api.FormatCoefficient(coef),
	}
	if len(args) == 2 {
		value, err := calc.ParseAmount(args[1])
		if err != nil {
			return err
		}
		v := value.StringFixed(calc.CentPlaces)
		updated := table.UpdatedValue(value, year).StringFixed(calc.CentPlaces)
		dto.Value, dto.UpdatedValue = &v, &updated
	}

	out := cmd.OutOrStdout()
	if coefficientJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto)
	}

	fmt.Fprintf(out, "%d -> %d: %s\n", year, table.ReferenceYear, dto.Coefficient)
	if dto.UpdatedValue != nil {
		fmt.Fprintf(out, "%s x %s = %s\n", *dto.Value, dto.Coefficient, *dto.UpdatedValue)
	}
	return nil
}
