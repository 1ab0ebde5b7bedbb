package config

import (
	"context"
	"log"

	"github.com/plus3/chaintris/ledger"
	"github.com/plus3/chaintris/progression"
)

const (
	LedgerNone   = "none"
	LedgerMemory = "memory"
	LedgerSQLite = "sqlite"
	LedgerRemote = "remote"
)

// OpenLedger builds the configured ledger service. The returned close
// function releases it; both are nil in mode none.
func (c LedgerConfig) OpenLedger(ctx context.Context, catalog progression.Catalog, logger *log.Logger) (ledger.Service, func() error, error) {
	switch c.Mode {
	case LedgerMemory:
		return ledger.NewMemory(catalog), func() error { return nil }, nil
	case LedgerSQLite:
		db, err := ledger.OpenSQLite(c.Path, catalog)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case LedgerRemote:
		if c.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.Timeout)
			defer cancel()
		}
		client, err := ledger.Dial(ctx, c.URL, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		return nil, nil, nil
	}
}
