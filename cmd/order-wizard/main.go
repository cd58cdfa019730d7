package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/cli"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		return cli.Execute(ctx, lg, m, os.Args[1:])
	})
}
