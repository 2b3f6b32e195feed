package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/beesaferoot/ams-store/internal/app"
)

func paymentCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Settle payments",
	}
	process := &cobra.Command{
		Use:   "process",
		Short: "Mark a payment as paid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetUint("id")
			method, _ := cmd.Flags().GetString("method")
			txID, _ := cmd.Flags().GetString("transaction-id")
			if txID == "" {
				txID = uuid.NewString()
			}
			return r.with(cmd, func(a *app.App) error {
				if err := a.Reports.ProcessPayment(cmd.Context(), id, txID, method); err != nil {
					return err
				}
				return printJSON(cmd, map[string]interface{}{
					"paymentId":     id,
					"transactionId": txID,
					"paymentMethod": method,
					"status":        "PAID",
				})
			})
		},
	}
	process.Flags().Uint("id", 0, "Payment id")
	process.Flags().String("method", "", "Payment method, e.g. card or cash")
	process.Flags().String("transaction-id", "", "Transaction id (generated when empty)")
	_ = process.MarkFlagRequired("id")
	_ = process.MarkFlagRequired("method")
	cmd.AddCommand(process)
	return cmd
}

func residentCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resident",
		Short: "Manage residents",
	}
	assign := &cobra.Command{
		Use:   "assign",
		Short: "Move a user into an apartment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetUint("user")
			apartmentID, _ := cmd.Flags().GetUint("apartment")
			return r.with(cmd, func(a *app.App) error {
				if err := a.Reports.AssignResidentToApartment(cmd.Context(), userID, apartmentID); err != nil {
					return err
				}
				return printJSON(cmd, map[string]uint{"userId": userID, "apartmentId": apartmentID})
			})
		},
	}
	assign.Flags().Uint("user", 0, "User id")
	assign.Flags().Uint("apartment", 0, "Apartment id")
	_ = assign.MarkFlagRequired("user")
	_ = assign.MarkFlagRequired("apartment")
	cmd.AddCommand(assign)
	return cmd
}
