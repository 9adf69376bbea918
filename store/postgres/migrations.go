package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Mintgate store.
var Migrations = migrate.NewGroup("mintgate")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_mintgate_tiers",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_tiers (
    tier_index INT PRIMARY KEY,
    price      TEXT NOT NULL DEFAULT '0',
    ranges     JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_tiers`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_config",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_config (
    id                  INT PRIMARY KEY,
    max_mint_per_wallet BIGINT NOT NULL DEFAULT 0,
    paused              BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_config`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_receipts",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_receipts (
    id         TEXT PRIMARY KEY,
    batch_id   TEXT NOT NULL DEFAULT '',
    payer      TEXT NOT NULL DEFAULT '',
    recipient  TEXT NOT NULL DEFAULT '',
    token_id   TEXT NOT NULL DEFAULT '0',
    tier_index INT NOT NULL DEFAULT 0,
    price      TEXT NOT NULL DEFAULT '0',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_mintgate_receipts_recipient ON mintgate_receipts (recipient, created_at);
CREATE INDEX IF NOT EXISTS idx_mintgate_receipts_payer ON mintgate_receipts (payer, created_at);
CREATE INDEX IF NOT EXISTS idx_mintgate_receipts_batch ON mintgate_receipts (batch_id) WHERE batch_id != '';
CREATE UNIQUE INDEX IF NOT EXISTS idx_mintgate_receipts_token ON mintgate_receipts (token_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_receipts`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_mintgate_withdrawals",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS mintgate_withdrawals (
    id         TEXT PRIMARY KEY,
    treasury   TEXT NOT NULL DEFAULT '',
    amount     TEXT NOT NULL DEFAULT '0',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_mintgate_withdrawals_created ON mintgate_withdrawals (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS mintgate_withdrawals`)
				return err
			},
		},
	)
}
