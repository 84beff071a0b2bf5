package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/juros-engine/api"
	"github.com/warp/juros-engine/calc"
	"go.uber.org/zap"
)

var (
	accrueCategory string
	accrueEnd      string
	accrueDebts    []string
	accrueJSON     bool
)

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "Compute late-payment interest for one or more debts",
	Long: `Computes interest from each debt's due date to the end date under the
category's published rates. Each --debt is [ID=]PRINCIPAL@DUE_DATE; debts
without an id are numbered in order.`,
	Example: `  juros accrue --category CIVIL --end 2024-01-11 --debt 1000@2024-01-01
  juros accrue --category COMMERCIAL_3 --debt fatura-7=2500.00@2025-03-15 --json`,
	Args: cobra.NoArgs,
	RunE: runAccrue,
}

func init() {
	rootCmd.AddCommand(accrueCmd)
	accrueCmd.Flags().StringVarP(&accrueCategory, "category", "c", "", "CIVIL, COMMERCIAL_3, COMMERCIAL_5 or STATE")
	accrueCmd.Flags().StringVarP(&accrueEnd, "end", "e", "", "end date YYYY-MM-DD (default today)")
	accrueCmd.Flags().StringArrayVarP(&accrueDebts, "debt", "d", nil, "debt as [ID=]PRINCIPAL@DUE_DATE (repeatable)")
	accrueCmd.Flags().BoolVar(&accrueJSON, "json", false, "print JSON instead of a table")
	_ = accrueCmd.MarkFlagRequired("category")
	_ = accrueCmd.MarkFlagRequired("debt")
}

func runAccrue(cmd *cobra.Command, args []string) error {
	category, err := calc.ParseCategory(accrueCategory)
	if err != nil {
		return err
	}
	end := calc.Today()
	if accrueEnd != "" {
		if end, err = calc.ParseDate(accrueEnd); err != nil {
			return fmt.Errorf("--end: %w", err)
		}
	}

	debts := make([]calc.Debt, len(accrueDebts))
	for i, raw := range accrueDebts {
		if debts[i], err = parseDebtFlag(raw, i); err != nil {
			return err
		}
	}

	engine, _, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	batch := engine.AccrueAll(debts, end, category)

	logger.Debug("interest calculated",
		zap.String("op", "main.accrue"),
		zap.Stringer("category", category),
		zap.Int("debts", len(debts)),
	)

	if accrueJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewInterestResponse(batch))
	}
	return printBatch(cmd.OutOrStdout(), batch)
}

// parseDebtFlag parses [ID=]PRINCIPAL@DUE_DATE. Debts without an id are
// named by their 1-based position.
func parseDebtFlag(raw string, index int) (calc.Debt, error) {
	id := strconv.Itoa(index + 1)
	body := strings.TrimSpace(raw)
	if k, rest, ok := strings.Cut(body, "="); ok {
		id, body = strings.TrimSpace(k), rest
	}

	principalRaw, dueRaw, ok := strings.Cut(body, "@")
	if !ok {
		return calc.Debt{}, fmt.Errorf("--debt %q: want [ID=]PRINCIPAL@DUE_DATE", raw)
	}
	principal, err := calc.ParseAmount(principalRaw)
	if err != nil {
		return calc.Debt{}, fmt.Errorf("--debt %q: %w", raw, err)
	}
	due, err := calc.ParseDate(strings.TrimSpace(dueRaw))
	if err != nil {
		return calc.Debt{}, fmt.Errorf("--debt %q: %w", raw, err)
	}
	return calc.Debt{ID: id, Principal: principal, DueDate: due}, nil
}

func printBatch(out io.Writer, b calc.Batch) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(out, "%s (%s), end date %s\n\n", b.Category.Label(), b.Category, b.EndDate)
	fmt.Fprintln(tw, "debt\tfrom\tto\trate %\tdays\tinterest\t")
	for _, r := range b.Results {
		if len(r.Segments) == 0 {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t0\t0.00\t\n", r.Debt.ID, r.Debt.DueDate)
		}
		for _, s := range r.Segments {
			rate := s.RatePercent.String()
			if s.Extrapolated {
				rate += "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t\n",
				r.Debt.ID, s.Start, s.End, rate, s.Days, s.Interest.StringFixed(2))
		}
		fmt.Fprintf(tw, "%s\t\t\ttotal\t%d\t%s\t\n", r.Debt.ID, r.Days(), r.TotalInterest.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\ncapital  %s\ninterest %s\ntotal    %s\n",
		b.TotalCapital.StringFixed(2), b.TotalInterest.StringFixed(2), b.GrandTotal.StringFixed(2))
	if hasExtrapolation(b) {
		fmt.Fprintln(out, "* rate extended past the last published period")
	}
	return nil
}

func hasExtrapolation(b calc.Batch) bool {
	for _, r := range b.Results {
		for _, s := range r.Segments {
			if s.Extrapolated {
				return true
			}
		}
	}
	return false
}
