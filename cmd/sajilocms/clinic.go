package main

import (
	"flag"
	"fmt"

	domainauth "github.com/sajilocms/sajilocms-go/internal/domain/auth"
	"github.com/sajilocms/sajilocms-go/internal/guard"
)

// ensureAccess runs the first auth determination and gates the command on the
// route guard. allowed is the route's role policy; an empty set admits any
// authenticated identity.
func ensureAccess(ctx *commandContext, route string, allowed ...domainauth.Role) error {
	ctx.Client.Session.Initialize(ctx.Ctx, route)

	outcome := ctx.Client.GuardFor(route, allowed...).Evaluate(ctx.Ctx)
	switch outcome.Decision {
	case guard.DecisionGrant:
		return nil
	case guard.DecisionRedirectUnauthorized:
		return fmt.Errorf("your role does not permit access to %s", route)
	default:
		return fmt.Errorf("not signed in; run `sajilocms login` to access %s", route)
	}
}

func queryFlag(fs *flag.FlagSet) *string {
	return fs.String("query", "", "JMESPath expression applied to the output")
}

func runDoctors(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("doctors", flag.ContinueOnError)
	query := queryFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// The doctors listing is public; no session needed.
	doctors, err := ctx.Client.Doctors.List(ctx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(doctors, *query)
}

func runAppointments(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("appointments", flag.ContinueOnError)
	query := queryFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := ensureAccess(ctx, "/appointments"); err != nil {
		return err
	}
	appts, err := ctx.Client.Appointments.List(ctx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(appts, *query)
}

func runRecords(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	query := queryFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := ensureAccess(ctx, "/records",
		domainauth.RoleDoctor, domainauth.RolePatient, domainauth.RoleAdmin); err != nil {
		return err
	}
	records, err := ctx.Client.Records.List(ctx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(records, *query)
}

func runPharmacy(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("pharmacy", flag.ContinueOnError)
	query := queryFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := ensureAccess(ctx, "/pharmacy",
		domainauth.RolePharmacist, domainauth.RoleAdmin); err != nil {
		return err
	}
	medicines, err := ctx.Client.Pharmacy.Medicines(ctx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(medicines, *query)
}

func runBills(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("bills", flag.ContinueOnError)
	query := queryFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := ensureAccess(ctx, "/bills",
		domainauth.RolePatient, domainauth.RoleReceptionist, domainauth.RoleAdmin); err != nil {
		return err
	}
	bills, err := ctx.Client.Billing.Bills(ctx.Ctx)
	if err != nil {
		return err
	}
	return printJSON(bills, *query)
}
