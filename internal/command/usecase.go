// Package command implements the engine's write paths: transaction
// creation and voiding, balance recomputation, vault/wallet/flow
// lifecycle, membership management, and category resolution. Mutating
// commands run their work inside TxRunner storage transactions; read-only
// listings call the repositories directly. Errors are either a typed
// *apperr.Error or a bare apperr sentinel passed up from a repository;
// apperr.KindOf maps both to a Kind.
package command

import (
	"context"

	"github.com/LerianStudio/ledger-engine/internal/authz"
	"github.com/LerianStudio/ledger-engine/internal/ports"
)

// UseCase aggregates the repositories and the authorization resolver every
// command needs. A command method is a receiver on UseCase; it never holds
// state across calls.
type UseCase struct {
	Vaults           ports.VaultRepository
	Wallets          ports.WalletRepository
	CashFlows        ports.CashFlowRepository
	Transactions     ports.TransactionRepository
	Legs             ports.LegRepository
	VaultMembers     ports.VaultMembershipRepository
	FlowMembers      ports.FlowMembershipRepository
	Categories       ports.CategoryRepository
	CategoryAliases  ports.CategoryAliasRepository

	Authz *authz.Resolver

	// TxRunner executes fn inside a single storage transaction with the
	// backend's strongest practical isolation level, committing on a nil
	// return and rolling back otherwise. Every mutating command wraps its
	// body in exactly one TxRunner.Run call.
	TxRunner TxRunner
}

// TxRunner abstracts "run fn inside one storage transaction" so UseCase
// never imports a driver directly; internal/adapters/postgres and
// internal/adapters/memory each provide one.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
