package stock

import (
	"github.com/shopspring/decimal"

	"github.com/venueops/backend/internal/domain/shared"
)

// Split is a front/back pair of quantities. It is a value object: all policy
// functions return a new Split rather than mutating the receiver.
type Split struct {
	Front decimal.Decimal
	Back  decimal.Decimal
}

// Total returns front + back.
func (s Split) Total() decimal.Decimal {
	return s.Front.Add(s.Back)
}

// IsValid returns true if both buckets are non-negative.
func (s Split) IsValid() bool {
	return !s.Front.IsNegative() && !s.Back.IsNegative()
}

// SplitOnChange computes the new front/back assignment when the total quantity
// changes to newTotal without the caller specifying an explicit split.
//
// Policy:
//   - maxFront == 0 disables split tracking: everything is front, back is zero.
//   - Increases land in back ("goods received go to the stockroom"), except on
//     initial creation where the opening balance fills front first and spills
//     the overflow to back.
//   - Decreases are taken from back first, dipping into front only when back
//     is exhausted.
//
// A newTotal below zero fails with ErrInsufficientStock; the current split is
// returned unchanged on error.
func SplitOnChange(current Split, newTotal, maxFront decimal.Decimal, initialCreation bool) (Split, error) {
	if newTotal.IsNegative() {
		return current, shared.ErrInsufficientStock
	}

	if maxFront.IsZero() {
		return Split{Front: newTotal, Back: decimal.Zero}, nil
	}

	delta := newTotal.Sub(current.Total())

	switch {
	case delta.IsZero():
		return current, nil

	case delta.IsPositive():
		if initialCreation {
			front := decimal.Min(newTotal, maxFront)
			return Split{Front: front, Back: newTotal.Sub(front)}, nil
		}
		return Split{Front: current.Front, Back: current.Back.Add(delta)}, nil

	default:
		shortfall := delta.Neg()
		fromBack := decimal.Min(current.Back, shortfall)
		fromFront := shortfall.Sub(fromBack)
		next := Split{
			Front: current.Front.Sub(fromFront),
			Back:  current.Back.Sub(fromBack),
		}
		if !next.IsValid() {
			return current, shared.ErrInsufficientStock
		}
		return next, nil
	}
}
