package enums

import "fmt"

// ItemDisposition tracks what ultimately happened to a found item.
type ItemDisposition string

const (
	DispositionAvailable        ItemDisposition = "available"
	DispositionReturnedToOwner  ItemDisposition = "returned_to_owner"
	DispositionDonated          ItemDisposition = "donated"
	DispositionSold             ItemDisposition = "sold"
	DispositionDiscarded        ItemDisposition = "discarded"
	DispositionAvailableForSale ItemDisposition = "available_for_sale"
)

var validItemDispositions = []ItemDisposition{
	DispositionAvailable,
	DispositionReturnedToOwner,
	DispositionDonated,
	DispositionSold,
	DispositionDiscarded,
	DispositionAvailableForSale,
}

// String implements fmt.Stringer.
func (d ItemDisposition) String() string {
	return string(d)
}

// IsValid reports whether the value is a known ItemDisposition.
func (d ItemDisposition) IsValid() bool {
	for _, candidate := range validItemDispositions {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether an item with this disposition has left the shelf.
func (d ItemDisposition) IsTerminal() bool {
	switch d {
	case DispositionReturnedToOwner, DispositionDonated, DispositionSold, DispositionDiscarded:
		return true
	default:
		return false
	}
}

// ParseItemDisposition converts raw input into an ItemDisposition.
func ParseItemDisposition(value string) (ItemDisposition, error) {
	for _, candidate := range validItemDispositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item disposition %q", value)
}
