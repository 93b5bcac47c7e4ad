package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sajilocms/sajilocms-go/internal/ports"
)

func runLogin(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email (defaults to the remembered email)")
	password := fs.String("password", "", "account password (prompted when omitted)")
	remember := fs.Bool("remember", false, "remember the email for future logins")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr := *email
	if addr == "" {
		cached, err := ctx.Client.Cache.Get(ctx.Ctx, ports.CacheKeyRememberedEmail)
		if err != nil {
			return errors.New("login: --email is required")
		}
		addr = cached
	}
	pw := *password
	if pw == "" {
		var err error
		pw, err = promptLine("Password: ")
		if err != nil {
			return err
		}
	}

	res, err := ctx.Client.Session.Login(ctx.Ctx, addr, pw)
	if err != nil {
		return err
	}

	if *remember {
		if cacheErr := ctx.Client.Cache.Set(ctx.Ctx, ports.CacheKeyRememberedEmail, addr); cacheErr != nil {
			ctx.Logger.Warn("failed remembering email", "error", cacheErr)
		}
	}

	fmt.Printf("Signed in as %s (%s)\n", res.Identity.Email, res.Identity.Role)
	return nil
}

func runRegister(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("register: --email is required")
	}

	pw, err := promptLine("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptLine("Confirm password: ")
	if err != nil {
		return err
	}

	msg, err := ctx.Client.Session.Register(ctx.Ctx, ports.RegisterInput{
		Email:           *email,
		Password:        pw,
		ConfirmPassword: confirm,
		FirstName:       *first,
		LastName:        *last,
	})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runWhoami(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	query := fs.String("query", "", "JMESPath expression applied to the output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx.Client.Session.Initialize(ctx.Ctx, "/whoami")

	id, ok := ctx.Client.Session.Identity()
	if !ok {
		return errors.New("not signed in")
	}
	return printJSON(id, *query)
}

func runLogout(ctx *commandContext, _ []string) error {
	ctx.Client.Session.Logout(ctx.Ctx)
	fmt.Println("Signed out.")
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
