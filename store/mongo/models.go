package mongo

import (
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

	Index     int          `grove:"tier_index,pk" bson:"_id"`
	Price     string       `grove:"price"         bson:"price"`
	Ranges    []rangeModel `grove:"ranges"        bson:"ranges"`
	CreatedAt time.Time    `grove:"created_at"    bson:"created_at"`
	UpdatedAt time.Time    `grove:"updated_at"    bson:"updated_at"`
}

type rangeModel struct {
	Start string `bson:"start"`
	End   string `bson:"end"`
}

func toTierModel(entry tier.Entry) *tierModel {
	ranges := make([]rangeModel, len(entry.Ranges))
	for i, r := range entry.Ranges {
		ranges[i] = rangeModel{Start: r.Start.String(), End: r.End.String()}
	}

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
		ranges = make([]tier.Range, len(m.Ranges))
		for i, r := range m.Ranges {
			start, err := types.ParseTokenID(r.Start)
			if err != nil {
				return tier.Entry{}, err
			}
			end, err := types.ParseTokenID(r.End)
			if err != nil {
				return tier.Entry{}, err
			}
			ranges[i] = tier.Range{Start: start, End: end}
		}
	}

	return tier.Entry{
		Index: uint8(m.Index),
		Tier:  tier.Tier{Price: price, Ranges: ranges},
	}, nil
}

// ==================== Config model ====================

// configModel is a single-document collection keyed by a fixed id.
type configModel struct {
	grove.BaseModel `grove:"table:mintgate_config"`

	ID               int       `grove:"id,pk"               bson:"_id"`
	MaxMintPerWallet int64     `grove:"max_mint_per_wallet" bson:"max_mint_per_wallet"`
	Paused           bool      `grove:"paused"              bson:"paused"`
	UpdatedAt        time.Time `grove:"updated_at"          bson:"updated_at"`
}

const configDocID = 1

// ==================== Receipt model ====================

type receiptModel struct {
	grove.BaseModel `grove:"table:mintgate_receipts"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	BatchID   string    `grove:"batch_id"   bson:"batch_id"`
	Payer     string    `grove:"payer"      bson:"payer"`
	Recipient string    `grove:"recipient"  bson:"recipient"`
	TokenID   string    `grove:"token_id"   bson:"token_id"`
	TierIndex int       `grove:"tier_index" bson:"tier_index"`
	Price     string    `grove:"price"      bson:"price"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
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

	ID        string    `grove:"id,pk"      bson:"_id"`
	Treasury  string    `grove:"treasury"   bson:"treasury"`
	Amount    string    `grove:"amount"     bson:"amount"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
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
