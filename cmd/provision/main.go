// Command provision grants SUPERADMIN to an existing user, or creates one.
// It talks to the same database, cache and broker as the HTTP service.
//
//	SUPERADMIN_PASSWORD=... provision -email root@example.com -name Root -surname Admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"identity-api/internal"
	dto "identity-api/internal/interface/api/rest/dto/user"
	"identity-api/internal/interface/api/rest/validator"
)

func main() {
	email := flag.String("email", "", "email of the superadmin (required)")
	name := flag.String("name", "", "first name, used only when the user is created")
	surname := flag.String("surname", "", "surname, used only when the user is created")
	flag.Parse()

	req := dto.ProvisionRequest{
		Email:    *email,
		Name:     *name,
		Surname:  *surname,
		Password: os.Getenv("SUPERADMIN_PASSWORD"),
	}
	req.Normalize()
	if errs := validator.New().Struct(req); errs != nil {
		for field, msg := range errs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}

	u, created, err := app.Provision(ctx, dto.ToDomainProvision(req))
	if err != nil {
		app.Logger().Error("provisioning failed", zap.Error(err))
		app.Close()
		os.Exit(1)
	}

	action := "promoted"
	if created {
		action = "created"
	}
	app.Logger().Info("superadmin "+action,
		zap.Stringer("user_id", u.UUID),
		zap.String("email", u.Email),
	)
	app.Close()

	fmt.Println(u.UUID)
}
