package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
)

const titleWidth = 32

var (
	baseURL string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gobudget-cli",
		Short:         "GoBudget CLI tool",
		Long:          `A command line interface for interacting with the GoBudget API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBudget API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Transaction operations",
	}
	txCmd.AddCommand(txListCmd(), txAddCmd(), txDeleteCmd())

	rootCmd.AddCommand(txCmd, summaryCmd(), chartsCmd(), exportCmd())
	return rootCmd
}

func txListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListTransactionsResponse
			if err := doJSON(http.MethodGet, "/api/v1/transactions", nil, http.StatusOK, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, resp)
			}
			return printTransactions(out, resp.Transactions, time.Now())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func txAddCmd() *cobra.Command {
	var req struct {
		Type        string `json:"type"`
		Category    string `json:"category"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
		Date        string `json:"date,omitempty"`
	}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TransactionResponse
			if err := doJSON(http.MethodPost, "/api/v1/transactions", req, http.StatusCreated, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %s %s\n", resp.ID, resp.DisplayAmount, resp.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Type, "type", string(domain.TypeIncome), "income or expense")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount, e.g. 250 or 99.50")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category (default other)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&req.Date, "date", "", "Date as YYYY-MM-DD (default now)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := doJSON(http.MethodDelete, "/api/v1/transactions/"+args[0], nil, http.StatusNoContent, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals and spending highlights",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SummaryResponse
			if err := doJSON(http.MethodGet, "/api/v1/summary", nil, http.StatusOK, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Income\t%s\n", resp.Totals.IncomeDisplay)
			fmt.Fprintf(w, "Expenses\t%s\n", resp.Totals.ExpenseDisplay)
			fmt.Fprintf(w, "Net\t%s\n", resp.Totals.NetDisplay)
			fmt.Fprintf(w, "Top category\t%s\n", resp.MostCategory)
			fmt.Fprintf(w, "Top expense\t%s\n", resp.TopTransaction)
			fmt.Fprintf(w, "Transactions\t%d\n", resp.Count)
			return w.Flush()
		},
	}
}

func chartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Print chart series as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ChartsResponse
			if err := doJSON(http.MethodGet, "/api/v1/charts", nil, http.StatusOK, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all transactions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := do(http.MethodGet, "/api/v1/transactions/export", nil, http.StatusOK)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")
	return cmd
}

// do sends a request and returns the body when the status matches want.
func do(method, path string, payload any, want int) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimRight(baseURL, "/")+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return nil, fmt.Errorf("%s: %s (status %d)", apiErr.Error, apiErr.Message, resp.StatusCode)
			}
			return nil, fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func doJSON(method, path string, payload any, want int, out any) error {
	body, err := do(method, path, payload, want)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printTransactions(w io.Writer, txns []*dto.TransactionResponse, now time.Time) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, "no transactions")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAGE\tTITLE\tAMOUNT\tID")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.DisplayDate, age(t.Date, now), truncate(t.Title, titleWidth), t.DisplayAmount, t.ID)
	}
	return tw.Flush()
}

func age(iso string, now time.Time) string {
	at, ok := domain.ParseDate(iso)
	if !ok {
		return "-"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
