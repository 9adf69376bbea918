package sqlite

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/mintgate/id"
	"github.com/xraph/mintgate/mint"
	"github.com/xraph/mintgate/tier"
	"github.com/xraph/mintgate/types"
)

// ==================== Tier models ====================

type tierModel struct {
	grove.BaseModel `grove:"table:mintgate_tiers"`

	Index     int             `grove:"tier_index,pk"`
	Price     string          `grove:"price"`
	Ranges    json.RawMessage `grove:"ranges"`
	CreatedAt time.Time       `grove:"created_at"`
	UpdatedAt time.Time       `grove:"updated_at"`
}

func toTierModel(entry tier.Entry) *tierModel {
	ranges, _ := json.Marshal(entry.Ranges) //nolint:errcheck // marshals cleanly

	t := now()
	return &tierModel{
		Index:     int(entry.Index),
		Price:     entry.Price.String(),
		Ranges:    ranges,
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func fromTierModel(m *tierModel) (tier.Entry, error) {
	price, err := types.ParseAmount(m.Price)
	if err != nil {
		return tier.Entry{}, err
	}

	var ranges []tier.Range
	if len(m.Ranges) > 0 {
		if err := json.Unmarshal(m.Ranges, &ranges); err != nil {
			return tier.Entry{}, err
		}
	}

	return tier.Entry{
		Index: uint8(m.Index),
		Tier:  tier.Tier{Price: price, Ranges: ranges},
	}, nil
}

// ==================== Config model ====================

// configModel is a single-row table keyed by a fixed id.
type configModel struct {
	grove.BaseModel `grove:"table:mintgate_config"`

	ID               int       `grove:"id,pk"`
	MaxMintPerWallet int64     `grove:"max_mint_per_wallet"`
	Paused           bool      `grove:"paused"`
	UpdatedAt        time.Time `grove:"updated_at"`
}

const configRowID = 1

// ==================== Receipt model ====================

type receiptModel struct {
	grove.BaseModel `grove:"table:mintgate_receipts"`

	ID        string    `grove:"id,pk"`
	BatchID   string    `grove:"batch_id"`
	Payer     string    `grove:"payer"`
	Recipient string    `grove:"recipient"`
	TokenID   string    `grove:"token_id"`
	TierIndex int       `grove:"tier_index"`
	Price     string    `grove:"price"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toReceiptModel(r *mint.Receipt) *receiptModel {
	batchID := ""
	if !r.BatchID.IsNil() {
		batchID = r.BatchID.String()
	}

	return &receiptModel{
		ID:        r.ID.String(),
		BatchID:   batchID,
		Payer:     r.Payer.String(),
		Recipient: r.Recipient.String(),
		TokenID:   r.TokenID.String(),
		TierIndex: int(r.TierIndex),
		Price:     r.Price.String(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func fromReceiptModel(m *receiptModel) (*mint.Receipt, error) {
	receiptID, err := id.ParseReceiptID(m.ID)
	if err != nil {
		return nil, err
	}

	var batchID id.BatchID
	if m.BatchID != "" {
		batchID, err = id.ParseBatchID(m.BatchID)
		if err != nil {
			return nil, err
		}
	}

	tokenID, err := types.ParseTokenID(m.TokenID)
	if err != nil {
		return nil, err
	}

	price, err := types.ParseAmount(m.Price)
	if err != nil {
		return nil, err
	}

	return &mint.Receipt{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:        receiptID,
		BatchID:   batchID,
		Payer:     types.Address(m.Payer),
		Recipient: types.Address(m.Recipient),
		TokenID:   tokenID,
		TierIndex: uint8(m.TierIndex),
		Price:     price,
	}, nil
}

// ==================== Withdrawal model ====================

type withdrawalModel struct {
	grove.BaseModel `grove:"table:mintgate_withdrawals"`

	ID        string    `grove:"id,pk"`
	Treasury  string    `grove:"treasury"`
	Amount    string    `grove:"amount"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toWithdrawalModel(w *mint.Withdrawal) *withdrawalModel {
	return &withdrawalModel{
		ID:        w.ID.String(),
		Treasury:  w.Treasury.String(),
		Amount:    w.Amount.String(),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func fromWithdrawalModel(m *withdrawalModel) (*mint.Withdrawal, error) {
	withdrawalID, err := id.ParseWithdrawalID(m.ID)
	if err != nil {
		return nil, err
	}

	amount, err := types.ParseAmount(m.Amount)
	if err != nil {
		return nil, err
	}

	return &mint.Withdrawal{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:       withdrawalID,
		Treasury: types.Address(m.Treasury),
		Amount:   amount,
	}, nil
}

func now() time.Time { return time.Now().UTC() }
