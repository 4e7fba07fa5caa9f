package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	automationapp "github.com/vellap/portal/internal/application/automation"
	financeapp "github.com/vellap/portal/internal/application/finance"
	identityapp "github.com/vellap/portal/internal/application/identity"
)

type servicesKey struct{}

func withServices(ctx context.Context, svc *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, svc)
}

func services(cmd *cobra.Command) *Services {
	return cmd.Context().Value(servicesKey{}).(*Services)
}

// newRootCmd builds the command tree. The returned func releases whatever
// open acquired and must be called after Execute, also on failure.
func newRootCmd(open Opener) (*cobra.Command, func() error) {
	var (
		logLevel string
		closeFn  func() error
	)

	root := &cobra.Command{
		Use:          "portalctl",
		Short:        "Back-office tasks for the customer portal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			svc, closer, err := open(cmd.Context(), logLevel)
			if err != nil {
				return err
			}
			closeFn = closer
			cmd.SetContext(withServices(cmd.Context(), svc))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newUserCmd(), newAccountCmd(), newTicketCmd())

	cleanup := func() error {
		if closeFn == nil {
			return nil
		}
		fn := closeFn
		closeFn = nil
		return fn()
	}
	return root, cleanup
}

func newUserCmd() *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Manage desk users"}

	var input identityapp.CreateAdminInput
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a System Manager, or grant the role to an existing user and reset the password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := services(cmd).Admin.EnsureSystemManager(cmd.Context(), input)
			if err != nil {
				return err
			}
			verb := "Updated"
			if result.Created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, result.User.Email, strings.Join(result.User.Roles, ", "))
			return nil
		},
	}
	createAdmin.Flags().StringVar(&input.Email, "email", "", "Login email")
	createAdmin.Flags().StringVar(&input.Password, "password", "", "Login password")
	createAdmin.Flags().StringVar(&input.FirstName, "first-name", "", "First name")
	createAdmin.Flags().StringVar(&input.LastName, "last-name", "", "Last name")
	_ = createAdmin.MarkFlagRequired("email")
	_ = createAdmin.MarkFlagRequired("password")

	user.AddCommand(createAdmin)
	return user
}

func newAccountCmd() *cobra.Command {
	account := &cobra.Command{Use: "account", Short: "Manage Mode of Payment Accounts"}

	var input financeapp.SetAccountInput
	set := &cobra.Command{
		Use:   "set",
		Short: "Set the default receiving account of a mode of payment for a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := services(cmd).Accounts.Set(cmd.Context(), input)
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	set.Flags().StringVar(&input.ModeOfPayment, "mode-of-payment", "", "Mode of payment, e.g. Wire Transfer")
	set.Flags().StringVar(&input.Company, "company", "", "Company")
	set.Flags().StringVar(&input.DefaultAccount, "account", "", "Default receiving account")
	for _, name := range []string{"mode-of-payment", "company", "account"} {
		_ = set.MarkFlagRequired(name)
	}

	var modeOfPayment, company string
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the default receiving account of a mode of payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := services(cmd).Accounts.Get(cmd.Context(), modeOfPayment, company)
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	get.Flags().StringVar(&modeOfPayment, "mode-of-payment", "", "Mode of payment")
	get.Flags().StringVar(&company, "company", "", "Company")
	_ = get.MarkFlagRequired("mode-of-payment")
	_ = get.MarkFlagRequired("company")

	account.AddCommand(set, get)
	return account
}

func newTicketCmd() *cobra.Command {
	ticket := &cobra.Command{Use: "ticket", Short: "Inspect and submit Ticket Automations"}

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := services(cmd).Tickets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s  %s\n", t.Name, t.Status, t.Customer, t.TotalAmount.StringFixed(2))
			for _, q := range t.Quotations {
				fmt.Fprintf(out, "  %s  %s  %s\n", q.Quotation, q.Status, q.TotalAmount.StringFixed(2))
			}
			return nil
		},
	}

	submit := &cobra.Command{
		Use:   "submit <name>",
		Short: "Submit a draft ticket and run its sales cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := services(cmd).Tickets.Submit(cmd.Context(), args[0])
			if err != nil {
				var cycleErr *automationapp.CycleError
				if errors.As(err, &cycleErr) {
					printNotices(out, cycleErr.Notices)
				}
				return err
			}
			printNotices(out, result.Notices)
			if result.Outcome == automationapp.CycleCompleted {
				fmt.Fprintf(out, "Sales Order: %s\nPayment Entry: %s\n", result.SalesOrder, result.PaymentEntry)
			}
			return nil
		},
	}

	ticket.AddCommand(show, submit)
	return ticket
}

func printAccount(w io.Writer, a *financeapp.AccountResponse) {
	fmt.Fprintf(w, "%s / %s: %s\n", a.ModeOfPayment, a.Company, a.DefaultAccount)
}

func printNotices(w io.Writer, notices []string) {
	for _, n := range notices {
		fmt.Fprintln(w, n)
	}
}
