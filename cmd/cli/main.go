package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the fintrack HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

// apiError is a non-2xx response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.Status, strings.TrimSpace(e.Body))
}

func (c *apiClient) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &apiError{Status: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "fintrack-cli",
		Short:         "fintrack CLI tool",
		Long:          `A command line interface for interacting with the fintrack API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = baseURL
			client.http = &http.Client{Timeout: timeout}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the fintrack API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newLedgerCmd(client),
		newRecurringCmd(client),
		newBudgetsCmd(client),
		newGroupsCmd(client),
		newExportCmd(client),
		newImportCmd(client),
	)
	return rootCmd
}

func newLedgerCmd(client *apiClient) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check debt, goal and group consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil)
			var apiErr *apiError
			if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict) {
				return err
			}

			var result struct {
				Consistent bool     `json:"consistent"`
				Issues     []string `json:"issues"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if result.Consistent {
				fmt.Fprintln(out, "Consistency check PASSED")
				return nil
			}
			fmt.Fprintln(out, "Consistency check FAILED")
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "  - %s\n", issue)
			}
			return fmt.Errorf("%d consistency issues", len(result.Issues))
		},
	})

	ledgerCmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile every account against its transaction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, client, "/api/v1/ledger/reconcile")
		},
	})

	return ledgerCmd
}

func newRecurringCmd(client *apiClient) *cobra.Command {
	recurringCmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring transaction operations",
	}

	recurringCmd.AddCommand(&cobra.Command{
		Use:   "process",
		Short: "Generate transactions for every due template",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/recurring/process", nil)
			if err != nil {
				return err
			}

			var result struct {
				Generated int `json:"generated"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d transaction(s)\n", result.Generated)
			return nil
		},
	})

	return recurringCmd
}

func newBudgetsCmd(client *apiClient) *cobra.Command {
	budgetsCmd := &cobra.Command{
		Use:   "budgets",
		Short: "Budget operations",
	}

	budgetsCmd.AddCommand(&cobra.Command{
		Use:   "progress [budget-id]",
		Short: "Show spending progress for one or all budgets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/budgets/progress"
			if len(args) == 1 {
				path = "/api/v1/budgets/" + url.PathEscape(args[0]) + "/progress"
			}
			return getAndPrint(cmd, client, path)
		},
	})

	return budgetsCmd
}

func newGroupsCmd(client *apiClient) *cobra.Command {
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "Split group operations",
	}

	groupsCmd.AddCommand(&cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show member balances of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getAndPrint(cmd, client, "/api/v1/groups/"+url.PathEscape(args[0])+"/balances")
		},
	})

	groupsCmd.AddCommand(&cobra.Command{
		Use:   "settle-up <group-id>",
		Short: "Suggest payments that settle a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.do(cmd.Context(), http.MethodGet, "/api/v1/groups/"+url.PathEscape(args[0])+"/settle-up", nil)
			if err != nil {
				return err
			}

			var result struct {
				Items []struct {
					FromMemberID string          `json:"fromMemberId"`
					ToMemberID   string          `json:"toMemberId"`
					Amount       json.RawMessage `json:"amount"`
				} `json:"items"`
			}
			if err := json.Unmarshal(body, &result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(result.Items) == 0 {
				fmt.Fprintln(out, "All settled up")
				return nil
			}
			for _, s := range result.Items {
				fmt.Fprintf(out, "%s -> %s: %s\n", s.FromMemberID, s.ToMemberID, strings.Trim(string(s.Amount), `"`))
			}
			return nil
		},
	})

	return groupsCmd
}

func newExportCmd(client *apiClient) *cobra.Command {
	var module, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download an export file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/export"
			if module != "" {
				path += "?module=" + url.QueryEscape(module)
			}

			body, err := client.do(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&module, "module", "", "Export a single module (finance)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func newImportCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace finance data with an export file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if _, err := client.do(cmd.Context(), http.MethodPost, "/api/v1/import", bytes.NewReader(raw)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
			return nil
		},
	}
}

func getAndPrint(cmd *cobra.Command, client *apiClient, path string) error {
	body, err := client.do(cmd.Context(), http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), body)
}

func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
