package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Cart is an ordered list of lines, unique by product id. Every operation
// returns a new Cart and leaves the receiver untouched.
type Cart []CartItem

func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	for i, it := range c {
		out[i] = CartItem{Product: it.Product.clone(), Quantity: it.Quantity}
	}
	return out
}

func (c Cart) index(id string) int {
	for i, it := range c {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) Add(p Product) Cart {
	out := c.Clone()
	if i := out.index(p.ID); i >= 0 {
		out[i].Quantity++
		return out
	}
	return append(out, CartItem{Product: p.clone(), Quantity: 1})
}

func (c Cart) Remove(id string) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c.Clone() {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}

// UpdateQuantity never drops a line below 1; removal is Remove's job.
func (c Cart) UpdateQuantity(id string, delta int) Cart {
	out := c.Clone()
	if i := out.index(id); i >= 0 {
		out[i].Quantity = max(1, out[i].Quantity+delta)
	}
	return out
}

func (c Cart) Total() float64 {
	total := 0.0
	for _, it := range c {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (c Cart) Count() int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

// Summary renders the human-readable "productBought" line of an order.
func (c Cart) Summary() string {
	parts := make([]string, 0, len(c))
	for _, it := range c {
		parts = append(parts, fmt.Sprintf("%s ×%d", it.Name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney is for display only; amounts are never rounded before they are stored or debited.
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + moneyPrinter.Sprintf("%.2f", -v)
	}
	return "$" + moneyPrinter.Sprintf("%.2f", v)
}
