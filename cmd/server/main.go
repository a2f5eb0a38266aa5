// Command server wires the engine against Postgres and verifies it is
// ready to serve. There is no HTTP transport in this engine: a caller
// embeds internal/bootstrap.Service directly, the way the teacher's own
// internal packages are driven by a transport layer that sits outside
// this repo's scope.
package main

import (
	"context"
	"log"

	"github.com/LerianStudio/ledger-engine/internal/bootstrap"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	svc, err := bootstrap.NewService(ctx, cfg)
	if err != nil {
		log.Fatalf("wire service: %v", err)
	}

	svc.Logger.Info("ledger engine ready")

	defer func() {
		if err := svc.Logger.Sync(); err != nil {
			log.Printf("flush logs: %v", err)
		}
	}()
}
