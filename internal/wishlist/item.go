package wishlist

import (
	"strings"
	"time"

	"github.com/angelmondragon/firstcredit-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/firstcredit-backend/pkg/errors"
	"github.com/google/uuid"
)

const DefaultIcon = "🛒"

// Item is something the child is saving toward. Items are created and
// destroyed, never edited.
type Item struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// NewItemInput is the child-supplied part of an item.
type NewItemInput struct {
	Name  string
	Price int64
	Icon  string
}

// NewItem validates input and fills the default icon.
func NewItem(id uuid.UUID, in NewItemInput, createdAt time.Time) (Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Item{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if in.Price < 0 || in.Price > pricing.MaxAmount {
		return Item{}, pkgerrors.Newf(pkgerrors.CodeValidation, "item price must be between 0 and %d", pricing.MaxAmount)
	}
	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = DefaultIcon
	}
	return Item{ID: id, Name: name, Price: in.Price, Icon: icon, CreatedAt: createdAt}, nil
}
