package account

import (
	"fmt"

	"github.com/angelmondragon/firstcredit-backend/internal/wishlist"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/google/uuid"
)

func (e *Engine) AddItem(s State, in wishlist.NewItemInput) (State, error) {
	item, err := wishlist.NewItem(e.ids(), in, e.now())
	if err != nil {
		return s, err
	}
	s.Items = s.Items.Add(item)
	return s, nil
}

func (e *Engine) DeleteItem(s State, itemID uuid.UUID) (State, error) {
	items, ok := s.Items.Remove(itemID)
	if !ok {
		return s, itemNotFound(itemID)
	}
	s.Items = items
	return s, nil
}

// PurchaseItem buys an item outright from the balance.
func (e *Engine) PurchaseItem(s State, itemID uuid.UUID) (State, error) {
	item, ok := s.Items.Find(itemID)
	if !ok {
		return s, itemNotFound(itemID)
	}
	if s.Balance < item.Price {
		return s, pkgerrors.Newf(pkgerrors.CodePolicyViolation, "insufficient balance for %s", item.Name).
			WithDetails(map[string]any{"balance": s.Balance, "price": item.Price})
	}

	items, _ := s.Items.Remove(itemID)
	s.Items = items
	s.Balance -= item.Price
	s.Ledger = s.Ledger.Append(e.entry(e.now(), enums.LedgerCategoryPurchase, -item.Price, fmt.Sprintf("Bought %s", item.Name)))
	return s, nil
}

func itemNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found").
		WithDetails(map[string]any{"item_id": id})
}
