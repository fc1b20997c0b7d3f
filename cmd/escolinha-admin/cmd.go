package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

const minPasswordLength = 6

type adminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	UpdatePassword(ctx context.Context, login, hash string) (bool, error)
}

type migrateFunc func(ctx context.Context, command string, args ...string) error

type commandLine struct {
	admins  adminStore
	migrate migrateFunc
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                        - run schema migrations (up, down, status, version, redo...)")
	fmt.Fprintln(cli.out, "  create-admin -usuario NAME -email EMAIL [-nome NOME] - create an administrator; the password is prompted")
	fmt.Fprintln(cli.out, "  reset-password -login USERNAME|EMAIL          - reset an administrator password; the password is prompted")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createCmd := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	createCmd.SetOutput(cli.out)
	createUsuario := createCmd.String("usuario", "", "Login name of the administrator.")
	createEmail := createCmd.String("email", "", "Email of the administrator.")
	createNome := createCmd.String("nome", "", "Display name. Defaults to the login name.")

	resetCmd := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	resetCmd.SetOutput(cli.out)
	resetLogin := resetCmd.String("login", "", "The administrator's username or email.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2], args[3:]...)

	case "create-admin":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createUsuario == "" || *createEmail == "" {
			createCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.createAdmin(ctx, *createUsuario, *createEmail, *createNome, pwd)

	case "reset-password":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetLogin == "" {
			resetCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *resetLogin, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) < minPasswordLength {
		return "", fmt.Errorf("password must have at least %d characters", minPasswordLength)
	}
	return string(pwd), nil
}

func (cli *commandLine) createAdmin(ctx context.Context, usuario, email, nome, pwd string) error {
	hash, err := service.HashPassword(pwd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(nome) == "" {
		nome = usuario
	}
	admin := &models.Admin{Usuario: usuario, Email: strings.ToLower(email), Nome: nome, SenhaHash: hash, Ativo: true}
	if err := cli.admins.Create(ctx, admin); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "admin %q created with id %d\n", usuario, admin.ID)
	return nil
}

func (cli *commandLine) resetPassword(ctx context.Context, login, pwd string) error {
	hash, err := service.HashPassword(pwd)
	if err != nil {
		return err
	}
	ok, err := cli.admins.UpdatePassword(ctx, login, hash)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("admin %q not found", login)
	}
	fmt.Fprintf(cli.out, "password updated for %q\n", login)
	return nil
}
