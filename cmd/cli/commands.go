package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ceodigitcare/bizledger/internal/adapter/http/dto"
	"github.com/ceodigitcare/bizledger/internal/adapter/http/middleware"
	"github.com/ceodigitcare/bizledger/internal/domain"
)

type options struct {
	baseURL string
	timeout time.Duration
	tenant  string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bizledger-cli",
		Short:         "BizLedger CLI tool",
		Long:          `A command line interface for the BizLedger API and its document status classifier.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the BizLedger API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(reconcileCmd(opts), balanceCmd(opts), classifyCmd())

	return rootCmd
}

func reconcileCmd(opts *options) *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Refresh every cached account balance of a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/reconciliation?fail_fast=" + strconv.FormatBool(failFast)

			var report dto.ReconciliationReportResponse
			err := opts.do(cmd, http.MethodPost, path, &report)

			// An aborted fail-fast run answers non-2xx with the partial report.
			var apiErr *apiError
			if errors.As(err, &apiErr) && json.Unmarshal(apiErr.body, &report) == nil && report.Aborted {
				printReport(cmd.OutOrStdout(), &report)
				return fmt.Errorf("reconciliation aborted (status %d)", apiErr.status)
			}
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), &report)
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d account(s) failed to reconcile", len(report.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant ID (UUID)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first account that fails")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func printReport(out io.Writer, report *dto.ReconciliationReportResponse) {
	fmt.Fprintf(out, "Reconciled %d account(s) in %dms\n", len(report.Succeeded), report.DurationMS)
	fmt.Fprintf(out, "Changed: %d\n", len(report.Changed))
	for _, id := range report.Changed {
		fmt.Fprintf(out, "  %s\n", id)
	}
	if len(report.Failed) > 0 {
		fmt.Fprintf(out, "Failed: %d\n", len(report.Failed))
		for _, f := range report.Failed {
			fmt.Fprintf(out, "  %s: %s\n", f.AccountID, truncate(f.Error, 80))
		}
	}
	if report.Aborted {
		fmt.Fprintln(out, "Run aborted at the first failure")
	}
}

func balanceCmd(opts *options) *cobra.Command {
	var accountID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Compare an account's cached balance with its computed balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BalanceResponse
			if err := opts.do(cmd, http.MethodGet, "/api/v1/accounts/"+accountID+"/balance", &balance); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), balance)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Account:    %s (%s)\n", balance.AccountID, balance.Currency)
			fmt.Fprintf(out, "Recorded:   %s\n", balance.RecordedBalance.Value)
			fmt.Fprintf(out, "Calculated: %s\n", balance.CalculatedBalance.Value)
			if balance.IsReconciled {
				fmt.Fprintln(out, "Status:     reconciled")
			} else {
				fmt.Fprintf(out, "Status:     off by %s\n", balance.Difference.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.tenant, "tenant", "", "Tenant ID (UUID)")
	cmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func classifyCmd() *cobra.Command {
	var total, paid string
	var items []string
	var cancelled bool

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a document locally",
		Long: `Derive the status of a purchase bill or sales invoice without a server.
Each --item is ordered:received, e.g. --item 10:4.`,
		Example: "  bizledger-cli classify --total 100 --paid 40 --item 3:3 --item 2:0",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := classifyInput(total, paid, items, cancelled)
			if err != nil {
				return err
			}

			status, err := domain.Classify(input)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), dto.ClassifyFromInput(input, status))
		},
	}

	cmd.Flags().StringVar(&total, "total", "0", "Document total in major units")
	cmd.Flags().StringVar(&paid, "paid", "0", "Amount paid in major units")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item as ordered:received (repeatable)")
	cmd.Flags().BoolVar(&cancelled, "cancelled", false, "Document is cancelled")

	return cmd
}

func classifyInput(total, paid string, items []string, cancelled bool) (domain.StatusInput, error) {
	totalMinor, err := parseMajor("total", total)
	if err != nil {
		return domain.StatusInput{}, err
	}
	paidMinor, err := parseMajor("paid", paid)
	if err != nil {
		return domain.StatusInput{}, err
	}

	progress := make([]domain.ItemProgress, 0, len(items))
	for _, item := range items {
		ordered, received, ok := strings.Cut(item, ":")
		if !ok {
			return domain.StatusInput{}, fmt.Errorf("item %q: expected ordered:received", item)
		}
		o, err := strconv.ParseInt(strings.TrimSpace(ordered), 10, 64)
		if err != nil {
			return domain.StatusInput{}, fmt.Errorf("item %q: invalid ordered quantity", item)
		}
		r, err := strconv.ParseInt(strings.TrimSpace(received), 10, 64)
		if err != nil {
			return domain.StatusInput{}, fmt.Errorf("item %q: invalid received quantity", item)
		}
		progress = append(progress, domain.ItemProgress{Ordered: o, Received: r})
	}

	return domain.StatusInput{
		TotalAmount: totalMinor,
		AmountPaid:  paidMinor,
		Items:       progress,
		IsCancelled: cancelled,
	}, nil
}

func parseMajor(name, value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("--%s: %q is not a decimal number", name, value)
	}
	return domain.FromMajorUnits(d)
}

// do sends a tenant scoped request and decodes a 2xx JSON body into v.
func (o *options) do(cmd *cobra.Command, method, path string, v any) error {
	if _, err := uuid.Parse(o.tenant); err != nil {
		return fmt.Errorf("--tenant must be a UUID: %w", err)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), method, strings.TrimRight(o.baseURL, "/")+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(middleware.TenantHeader, o.tenant)

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apiError{status: resp.StatusCode, body: body}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// apiError is a non-2xx response. body is kept for callers that expect a
// payload other than dto.ErrorResponse.
type apiError struct {
	status int
	body   []byte
}

func (e *apiError) Error() string {
	var resp dto.ErrorResponse
	if json.Unmarshal(e.body, &resp) == nil && resp.Error != "" {
		return fmt.Sprintf("%s (status %d): %s", resp.Error, e.status, resp.Message)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.status, truncate(string(e.body), 200))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
