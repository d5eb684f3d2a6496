package model

import (
	"fmt"

	"github.com/babylonlabs-io/staking-ledger/internal/types"
	"github.com/babylonlabs-io/staking-ledger/pkg"
)

type CreditDocument struct {
	Address string `bson:"address" json:"address"`
	Amount  string `bson:"amount" json:"amount"`
}

type LedgerEventDocument struct {
	ID        string           `bson:"_id" json:"id"`
	Sequence  uint64           `bson:"sequence" json:"sequence"`
	Type      string           `bson:"type" json:"type"`
	Caller    string           `bson:"caller" json:"caller"`
	Recipient string           `bson:"recipient,omitempty" json:"recipient,omitempty"`
	Amount    string           `bson:"amount" json:"amount"`
	Credits   []CreditDocument `bson:"credits,omitempty" json:"credits,omitempty"`
	Timestamp int64            `bson:"timestamp" json:"timestamp"`
}

func FromLedgerEvent(ev *types.LedgerEvent) *LedgerEventDocument {
	var credits []CreditDocument
	for _, c := range ev.Credits {
		credits = append(credits, CreditDocument{
			Address: c.Address.String(),
			Amount:  c.Amount.String(),
		})
	}

	return &LedgerEventDocument{
		ID:        ev.ID,
		Sequence:  ev.Sequence,
		Type:      ev.Type.String(),
		Caller:    ev.Caller.String(),
		Recipient: ev.Recipient.String(),
		Amount:    ev.Amount.String(),
		Credits:   credits,
		Timestamp: ev.Timestamp,
	}
}

func (d *LedgerEventDocument) ToLedgerEvent() (*types.LedgerEvent, error) {
	eventType := types.EventType(d.Type)
	if !eventType.IsValid() {
		return nil, fmt.Errorf("unknown event type %q", d.Type)
	}

	caller, err := pkg.ParseAddress(d.Caller)
	if err != nil {
		return nil, fmt.Errorf("invalid event caller: %w", err)
	}

	var recipient pkg.Address
	if d.Recipient != "" {
		if recipient, err = pkg.ParseAddress(d.Recipient); err != nil {
			return nil, fmt.Errorf("invalid event recipient: %w", err)
		}
	}

	amounts, err := parseAmounts(d.Amount)
	if err != nil {
		return nil, err
	}

	var credits []types.Credit
	for _, c := range d.Credits {
		addr, err := pkg.ParseAddress(c.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid credit address: %w", err)
		}
		creditAmount, err := parseAmounts(c.Amount)
		if err != nil {
			return nil, err
		}
		credits = append(credits, types.Credit{Address: addr, Amount: creditAmount[0]})
	}

	return &types.LedgerEvent{
		ID:        d.ID,
		Sequence:  d.Sequence,
		Type:      eventType,
		Caller:    caller,
		Recipient: recipient,
		Amount:    amounts[0],
		Credits:   credits,
		Timestamp: d.Timestamp,
	}, nil
}
