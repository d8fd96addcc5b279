package main

import (
	"context"
	"log"
	"os"

	_ "go.uber.org/automaxprocs"

	"identity-api/internal"
)

func main() {
	ctx := context.Background()

	app, err := internal.NewApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}

	app.InitControllers()

	err = app.Run(ctx)
	if err != nil {
		app.Logger().Sugar().Errorf("identityapi stopped with error: %v", err)
	}
	app.Close()
	if err != nil {
		os.Exit(1)
	}
}
