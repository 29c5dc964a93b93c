// Package billing computes subtotal, tax and total for an order.
//
// Amounts are integer minor units (cents). Tax is rounded half-up to the
// cent when it is computed, so totals never drift with the number of lines.
package billing

import (
	"errors"
	"strings"
)

type Method string

const (
	Cash Method = "cash"
	Card Method = "card"
)

func (m Method) Valid() bool { return m == Cash || m == Card }

// RateBasisPoints returns the tax rate in 1/100 of a percent.
func (m Method) RateBasisPoints() int64 {
	if m == Cash {
		return 1500
	}
	return 800
}

type Line struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

func (l Line) Amount() int64 { return l.Price * int64(l.Quantity) }

func (l Line) Validate() error {
	switch {
	case strings.TrimSpace(l.Name) == "":
		return errors.New("item name is required")
	case l.Price < 0:
		return errors.New("item price must not be negative")
	case l.Quantity < 1:
		return errors.New("item quantity must be at least 1")
	}
	return nil
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Tax rounds half-up to the nearest minor unit.
func Tax(subtotal int64, m Method) int64 {
	if subtotal <= 0 {
		return 0
	}
	return (subtotal*m.RateBasisPoints() + 5000) / 10000
}

func Compute(lines []Line, m Method) Totals {
	var sub int64
	for _, l := range lines {
		sub += l.Amount()
	}
	tax := Tax(sub, m)
	return Totals{Subtotal: sub, Tax: tax, Total: sub + tax}
}

// Order is an in-progress list of line items keyed by name.
type Order struct {
	Method Method `json:"paymentMethod"`
	Lines  []Line `json:"orderItems"`
}

func (o *Order) index(name string) int {
	for i, l := range o.Lines {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line, or appends a new one
// carrying price as its snapshot.
func (o *Order) Add(name string, price int64) {
	if i := o.index(name); i >= 0 {
		o.Lines[i].Quantity++
		return
	}
	o.Lines = append(o.Lines, Line{Name: name, Price: price, Quantity: 1})
}

// AddLine merges l into an existing line of the same name, keeping that
// line's price, or appends it.
func (o *Order) AddLine(l Line) {
	if i := o.index(l.Name); i >= 0 {
		o.Lines[i].Quantity += l.Quantity
		return
	}
	o.Lines = append(o.Lines, l)
}

// SetQuantity removes the line when qty < 1. It reports whether the line existed.
func (o *Order) SetQuantity(name string, qty int) bool {
	i := o.index(name)
	if i < 0 {
		return false
	}
	if qty < 1 {
		o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
		return true
	}
	o.Lines[i].Quantity = qty
	return true
}

func (o *Order) Remove(name string) bool { return o.SetQuantity(name, 0) }

func (o *Order) SetMethod(m Method) { o.Method = m }

func (o *Order) Totals() Totals { return Compute(o.Lines, o.Method) }

func (o *Order) Validate() error {
	if o.Method != "" && !o.Method.Valid() {
		return errors.New("payment method must be cash or card")
	}
	for _, l := range o.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}
