/*
validator.go - Type-conditional transaction validation

PURPOSE:
  Validates a transaction input against the item's projected quantity and
  the deployment policy. Pure function: no side effects, no clock, no
  store access. The engine supplies the current quantity.

RULES (checked in order, first failure wins):
  1. Quantity must be a positive integer
  2. Type must be IN, OUT, or TRANSFER
  3. IN requires a destination location
  4. OUT requires a source location
  5. TRANSFER requires both locations, and they must differ
  6. Unless negative stock is allowed, OUT/TRANSFER must not exceed the
     current projected quantity
*/
package ledger

// Validate checks an input against the current projected quantity and
// policy, returning the transaction ready for append. The returned
// transaction has no identity yet; the ledger assigns it on append.
func Validate(in Input, currentQuantity int64, policy Policy) (Transaction, error) {
	switch v := in.(type) {
	case ReceiptInput:
		if v.Quantity <= 0 {
			return Transaction{}, ErrInvalidQuantity
		}
		if v.Destination == "" {
			return Transaction{}, ErrMissingDestination
		}
		return Transaction{
			ItemID:           v.Item,
			Type:             TxIn,
			Quantity:         v.Quantity,
			Destination:      v.Destination,
			OccurredAt:       v.OccurredAt,
			ResponsibleParty: v.ResponsibleParty,
			Notes:            v.Notes,
		}, nil

	case IssueInput:
		if v.Quantity <= 0 {
			return Transaction{}, ErrInvalidQuantity
		}
		if v.Source == "" {
			return Transaction{}, ErrMissingSource
		}
		if err := checkAvailable(v.Item, v.Quantity, currentQuantity, policy); err != nil {
			return Transaction{}, err
		}
		return Transaction{
			ItemID:           v.Item,
			Type:             TxOut,
			Quantity:         v.Quantity,
			Source:           v.Source,
			OccurredAt:       v.OccurredAt,
			ResponsibleParty: v.ResponsibleParty,
			Notes:            v.Notes,
		}, nil

	case TransferInput:
		if v.Quantity <= 0 {
			return Transaction{}, ErrInvalidQuantity
		}
		if v.Source == "" {
			return Transaction{}, ErrMissingSource
		}
		if v.Destination == "" {
			return Transaction{}, ErrMissingDestination
		}
		if v.Source == v.Destination {
			return Transaction{}, ErrSameLocationTransfer
		}
		// A transfer nets to zero for the item total, but you still
		// cannot move more than is on hand.
		if err := checkAvailable(v.Item, v.Quantity, currentQuantity, policy); err != nil {
			return Transaction{}, err
		}
		return Transaction{
			ItemID:           v.Item,
			Type:             TxTransfer,
			Quantity:         v.Quantity,
			Source:           v.Source,
			Destination:      v.Destination,
			OccurredAt:       v.OccurredAt,
			ResponsibleParty: v.ResponsibleParty,
			Notes:            v.Notes,
		}, nil

	case UnknownInput:
		if v.Quantity <= 0 {
			return Transaction{}, ErrInvalidQuantity
		}
		return Transaction{}, ErrInvalidType

	default:
		return Transaction{}, ErrInvalidType
	}
}

func checkAvailable(itemID ItemID, requested, current int64, policy Policy) error {
	if policy.AllowNegativeStock {
		return nil
	}
	if requested > current {
		return &InsufficientStockError{
			ItemID:    itemID,
			Available: current,
			Requested: requested,
		}
	}
	return nil
}
