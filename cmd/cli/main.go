package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/glcore/internal/domain"
	"github.com/iho/glcore/internal/infrastructure/auth"
	"github.com/iho/glcore/internal/infrastructure/config"
	"github.com/iho/glcore/internal/infrastructure/logger"
	"github.com/iho/glcore/internal/infrastructure/postgres"
)

var (
	baseURL string
	token   string
	timeout time.Duration

	bcryptGenerate = bcrypt.GenerateFromPassword
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "glcore-cli",
		Short: "General ledger CLI tool",
		Long:  `A command line interface for operating the general ledger service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GLCORE_TOKEN"), "Bearer token for the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(migrateCmd(), ledgerCmd(), balanceCmd(), rateCmd(), tokenCmd(), hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	withMigrator := func(fn func(*postgres.Migrator) error) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr})
		mg, err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log)
		if err != nil {
			return err
		}
		defer mg.Close()

		return fn(mg)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(mg *postgres.Migrator) error { return mg.Up() })
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(mg *postgres.Migrator) error { return mg.Down(steps) })
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(mg *postgres.Migrator) error {
				v, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version %d (dirty: %v)\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var year, period int
	addPeriodFlags := func(c *cobra.Command) {
		now := time.Now().UTC()
		c.Flags().IntVar(&year, "year", now.Year(), "Fiscal year")
		c.Flags().IntVar(&period, "period", int(now.Month()), "Fiscal period")
	}

	consistency := &cobra.Command{
		Use:   "consistency",
		Short: "Check that a period's debits equal its credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkReport("Consistency check", "/api/v1/ledger/consistency", periodQuery(year, period))
		},
	}
	addPeriodFlags(consistency)

	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute a period's balances from posted entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkReport("Reconciliation", "/api/v1/ledger/reconciliation", periodQuery(year, period))
		},
	}
	addPeriodFlags(reconcile)

	cmd.AddCommand(consistency, reconcile)
	return cmd
}

func balanceCmd() *cobra.Command {
	var year, period int
	now := time.Now().UTC()

	cmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show an account's period balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := get("/api/v1/accounts/"+url.PathEscape(args[0])+"/balance", periodQuery(year, period))
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("request failed (status %d): %s", status, truncate(string(body), 200))
			}

			return printRaw(body)
		},
	}
	cmd.Flags().IntVar(&year, "year", now.Year(), "Fiscal year")
	cmd.Flags().IntVar(&period, "period", int(now.Month()), "Fiscal period")

	return cmd
}

func rateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Exchange rate operations",
	}

	var on string
	convert := &cobra.Command{
		Use:   "convert <amount> <from> <to>",
		Short: "Convert an amount at the effective rate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"amount": {args[0]}, "from": {args[1]}, "to": {args[2]}}
			if on != "" {
				q.Set("on", on)
			}

			status, body, err := get("/api/v1/exchange-rates/convert", q)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				return fmt.Errorf("conversion failed (status %d): %s", status, truncate(string(body), 200))
			}

			return printRaw(body)
		},
	}
	convert.Flags().StringVar(&on, "on", "", "Rate date (YYYY-MM-DD), today when empty")

	cmd.AddCommand(convert)
	return cmd
}

func tokenCmd() *cobra.Command {
	var role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <actor-id>",
		Short: "Issue a bearer token for a service actor using JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			r := domain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}

			signed, err := auth.NewJWTManager(secret, ttl).GenerateForActor(domain.Actor{ID: args[0], Role: r})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAccountant), "Actor role (controller, accountant, viewer)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for seeding users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hash))
			return nil
		},
	}
}

// checkReport prints a ledger check and fails when the server reports a
// discrepancy (409).
func checkReport(name, path string, q url.Values) error {
	status, body, err := get(path, q)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK:
		fmt.Printf("%s PASSED\n", name)
	case http.StatusConflict:
		fmt.Printf("%s FAILED\n", name)
	default:
		return fmt.Errorf("%s request failed (status %d): %s", name, status, truncate(string(body), 200))
	}

	if err := printRaw(body); err != nil {
		return err
	}

	if status != http.StatusOK {
		os.Exit(2)
	}
	return nil
}

func periodQuery(year, period int) url.Values {
	return url.Values{"year": {strconv.Itoa(year)}, "period": {strconv.Itoa(period)}}
}

func get(path string, q url.Values) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	target := baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

func printRaw(body []byte) error {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	printJSON(v)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode output: %v\n", err)
		return
	}

	fmt.Println(string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}

	return s[:n-3] + "..."
}
