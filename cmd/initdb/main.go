// Command initdb creates the schema and seeds the bootstrap admin account.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"finance_tracker/internal/config"
	"finance_tracker/internal/logger"
	"finance_tracker/internal/repository"
	"finance_tracker/internal/service"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/term"
)

type connectFunc func(ctx context.Context) (repository.DB, func(), error)

type adminDefaults struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL, default=admin@example.com"`
}

func main() {
	_ = godotenv.Load()
	logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: true, Output: os.Stderr})

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, connectPostgres); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connectPostgres(ctx context.Context) (repository.DB, func(), error) {
	dbCfg, err := config.LoadDBConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	pool, err := config.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Close, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, connect connectFunc) error {
	var defaults adminDefaults
	if err := envconfig.Process(ctx, &defaults); err != nil {
		return fmt.Errorf("failed to read admin defaults: %w", err)
	}

	fs := flag.NewFlagSet("initdb", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("username", defaults.Username, "Admin username")
	email := fs.String("email", defaults.Email, "Admin email")
	passwordFlag := fs.String("password", "", "Admin password (optional, will prompt if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*username) == "" || strings.TrimSpace(*email) == "" {
		fmt.Fprintln(stdout, "Usage: initdb [-username <name>] [-email <email>] [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("username and email must not be empty")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Admin password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	db, closeDB, err := connect(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closeDB()

	if err := config.AutoMigrate(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Database schema is up to date")

	auth := service.NewAuthService(repository.NewUserRepository(db), nil)
	user, created, err := auth.SeedAdmin(ctx, *username, *email, password)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if !created {
		fmt.Fprintf(stdout, "User with email %s already exists (ID %d, role %s)\n", user.Email, user.ID, user.Role)
		return nil
	}
	fmt.Fprintf(stdout, "Admin %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
