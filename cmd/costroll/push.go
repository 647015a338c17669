package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govsure/costroll/internal/client"
	"github.com/govsure/costroll/internal/money"
)

func newPushCmd(a *app) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Save a pricing model or budget through the API server",
	}
	cmd.PersistentFlags().StringVar(&baseURL, "api", "", "API base URL (default $API_BASE_URL)")

	newClient := func() *client.Client {
		if baseURL == "" {
			baseURL = a.cfg.APIBaseURL
		}
		return client.New(baseURL, client.WithToken(a.cfg.APIToken))
	}

	cmd.AddCommand(newPushPricingCmd(a, newClient), newPushBudgetCmd(a, newClient))
	return cmd
}

func newPushPricingCmd(a *app, newClient func() *client.Client) *cobra.Command {
	var (
		file string
		id   int64
	)

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Create or replace a saved pricing model",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadPricingModel(cmd, file)
			if err != nil {
				return err
			}

			saved, err := newClient().SavePricingModel(cmd.Context(), id, m)
			if err != nil {
				return describePushError(err)
			}
			a.logger.Info("pricing model pushed", zap.Int64("id", saved.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved pricing model %d: %s, score %d/100\n",
				saved.ID, money.Format(saved.Analysis.Totals.Total), saved.Analysis.Score)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "pricing model file (YAML or JSON)")
	cmd.Flags().Int64Var(&id, "id", 0, "replace this saved model instead of creating a new one")
	return cmd
}

func newPushBudgetCmd(a *app, newClient func() *client.Client) *cobra.Command {
	var file, grantID string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Save a grant budget under its grant id",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBudget(cmd, file)
			if err != nil {
				return err
			}
			if grantID != "" {
				b.GrantID = grantID
			}
			if b.GrantID == "" {
				return errors.New("a grant id is required (grantId in the file or --grant)")
			}

			saved, err := newClient().SaveBudget(cmd.Context(), b)
			if err != nil {
				return describePushError(err)
			}
			a.logger.Info("budget pushed", zap.String("grant_id", saved.Budget.GrantID))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved budget %s: %s total\n",
				saved.Budget.GrantID, money.Format(saved.Summary.Total))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "budget file (YAML or JSON)")
	cmd.Flags().StringVar(&grantID, "grant", "", "grant id, overrides the file")
	return cmd
}

func describePushError(err error) error {
	var verr *client.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("server rejected the document: %w", err)
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("check API_TOKEN: %w", err)
	case errors.Is(err, client.ErrTransient):
		return fmt.Errorf("server unavailable, try again: %w", err)
	default:
		return err
	}
}
