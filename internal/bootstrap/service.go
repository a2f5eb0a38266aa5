package bootstrap

import (
	"context"
	"fmt"

	"github.com/LerianStudio/ledger-engine/internal/adapters/postgres"
	"github.com/LerianStudio/ledger-engine/internal/authz"
	"github.com/LerianStudio/ledger-engine/internal/command"
	"github.com/LerianStudio/ledger-engine/internal/query"
	"github.com/LerianStudio/ledger-engine/pkg/mlog"
)

// Service is the fully wired engine: one Postgres connection backing every
// repository, an authz resolver shared by both use cases, and the
// command/query UseCase structs cmd/server dispatches against.
type Service struct {
	Config *Config
	Logger mlog.Logger

	Conn *postgres.Connection

	Commands *command.UseCase
	Queries  *query.UseCase
}

// NewService connects to Postgres and wires every repository, the authz
// resolver, and both UseCase structs. It does not run migrations; run
// cmd/migrate first against the same DB_PRIMARY_DSN.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	logger, err := mlog.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	ctx = mlog.WithContext(ctx, logger)

	conn := &postgres.Connection{
		PrimaryDSN:   cfg.PostgresPrimaryDSN,
		ReplicaDSN:   cfg.PostgresReplicaDSN,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}

	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	vaults := postgres.NewVaultRepository(conn)
	wallets := postgres.NewWalletRepository(conn)
	cashFlows := postgres.NewCashFlowRepository(conn)
	transactions := postgres.NewTransactionRepository(conn)
	legs := postgres.NewLegRepository(conn)
	vaultMembers := postgres.NewVaultMembershipRepository(conn)
	flowMembers := postgres.NewFlowMembershipRepository(conn)
	categories := postgres.NewCategoryRepository(conn)
	categoryAliases := postgres.NewCategoryAliasRepository(conn)

	resolver := authz.NewResolver(vaults, vaultMembers, flowMembers)

	commands := &command.UseCase{
		Vaults:          vaults,
		Wallets:         wallets,
		CashFlows:       cashFlows,
		Transactions:    transactions,
		Legs:            legs,
		VaultMembers:    vaultMembers,
		FlowMembers:     flowMembers,
		Categories:      categories,
		CategoryAliases: categoryAliases,
		Authz:           resolver,
		TxRunner:        postgres.NewTxRunner(conn),
	}

	queries := &query.UseCase{
		Vaults:       vaults,
		Wallets:      wallets,
		CashFlows:    cashFlows,
		Transactions: transactions,
		Legs:         legs,
		Categories:   categories,
		Authz:        resolver,
	}

	return &Service{
		Config:   cfg,
		Logger:   logger,
		Conn:     conn,
		Commands: commands,
		Queries:  queries,
	}, nil
}
