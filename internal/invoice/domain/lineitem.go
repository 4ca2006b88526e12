package domain

import (
	"github.com/maplebill/maplebill/internal/money"
	taxdomain "github.com/maplebill/maplebill/internal/tax/domain"
)

// AppliedTax is a tax line on a line item, captured at tax-application time.
type AppliedTax struct {
	Name string        `json:"name"`
	Rate money.Decimal `json:"rate"`
}

// Amount computes this tax on the taxable amount, rounded to cents. Each tax
// stacks independently on the discounted subtotal; taxes never compound on
// each other.
func (t AppliedTax) Amount(taxable money.Decimal) money.Decimal {
	return money.Round2(taxable.Mul(t.Rate))
}

// LineItem is a value object: a priced, quantity-scaled snapshot of a catalog
// item on the invoice. Mutation is by reconstruction; every setter returns a
// new value and leaves the receiver untouched, so shared copies compare equal
// until one is explicitly replaced.
type LineItem struct {
	Item      ItemSnapshot   `json:"item"`
	Quantity  money.Decimal  `json:"quantity"`
	SortOrder int            `json:"sort_order"`
	Taxes     []AppliedTax   `json:"taxes,omitempty"`
	Discounts []ItemDiscount `json:"discounts,omitempty"`
}

// NewLineItem builds a line item with quantity 1 and sort order 0.
func NewLineItem(item ItemSnapshot) LineItem {
	return LineItem{Item: item, Quantity: money.FromInt(1)}
}

// SetQuantity returns a copy with the new quantity. Negative quantities are
// rejected; zero is allowed (a placeholder line).
func (li LineItem) SetQuantity(q money.Decimal) (LineItem, error) {
	if q.IsNegative() {
		return LineItem{}, ErrInvalidQuantity
	}
	li.Quantity = q
	return li, nil
}

// SetSortOrder returns a copy with the new sort order.
func (li LineItem) SetSortOrder(n int) LineItem {
	li.SortOrder = n
	return li
}

// ApplyTaxes returns a copy with the applied-tax list replaced. Re-applying
// clears prior taxes first, so the operation is idempotent.
func (li LineItem) ApplyTaxes(rates []taxdomain.ApplicableTax) LineItem {
	taxes := make([]AppliedTax, 0, len(rates))
	for _, r := range rates {
		taxes = append(taxes, AppliedTax{Name: r.Name, Rate: r.Rate})
	}
	li.Taxes = taxes
	return li
}

// AddDiscount returns a copy with the discount appended. Only per-line-item
// and per-unit scopes attach to a line item.
func (li LineItem) AddDiscount(d Discount) (LineItem, error) {
	if d.Scope != ScopePerLineItem && d.Scope != ScopePerUnit {
		return LineItem{}, ErrInvalidDiscountScope
	}
	discounts := make([]ItemDiscount, len(li.Discounts), len(li.Discounts)+1)
	copy(discounts, li.Discounts)
	li.Discounts = append(discounts, ItemDiscount{
		ID:          d.ID,
		Name:        d.Name,
		Scope:       d.Scope,
		Percentage:  d.Percentage,
		FixedAmount: d.FixedAmount,
	})
	return li, nil
}

// Subtotal is unit price times quantity, before discounts and taxes.
func (li LineItem) Subtotal() money.Decimal {
	return li.Item.UnitPrice.Mul(li.Quantity)
}

// Discount sums the item's discount amounts.
func (li LineItem) Discount() money.Decimal {
	total := money.Zero()
	for _, d := range li.Discounts {
		total = total.Add(d.Amount(li))
	}
	return total
}

// TaxAmount sums the applied taxes over the discounted subtotal.
func (li LineItem) TaxAmount() money.Decimal {
	taxable := li.Subtotal().Sub(li.Discount())
	total := money.Zero()
	for _, t := range li.Taxes {
		total = total.Add(t.Amount(taxable))
	}
	return total
}

// Total is subtotal minus discounts plus taxes.
func (li LineItem) Total() money.Decimal {
	return li.Subtotal().Sub(li.Discount()).Add(li.TaxAmount())
}

// Equal is structural equality over all fields, including applied taxes and
// discounts in order.
func (li LineItem) Equal(other LineItem) bool {
	if !li.Item.Equal(other.Item) || !li.Quantity.Equal(other.Quantity) || li.SortOrder != other.SortOrder {
		return false
	}
	if len(li.Taxes) != len(other.Taxes) || len(li.Discounts) != len(other.Discounts) {
		return false
	}
	for i, t := range li.Taxes {
		if t.Name != other.Taxes[i].Name || !t.Rate.Equal(other.Taxes[i].Rate) {
			return false
		}
	}
	for i, d := range li.Discounts {
		if !d.Equal(other.Discounts[i]) {
			return false
		}
	}
	return true
}
