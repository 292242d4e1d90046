package storefront

import (
	"math"

	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

type Line struct {
	Item     models.MenuItem
	Quantity int
}

func (l Line) Subtotal() float64 { return l.Item.Price * float64(l.Quantity) }

// Cart is keyed by item name, so two menu items sharing a name share a line.
type Cart struct {
	lines map[string]*Line
	order []string
}

func NewCart() *Cart {
	return &Cart{lines: make(map[string]*Line)}
}

func (c *Cart) Add(item models.MenuItem) {
	if l, ok := c.lines[item.Name]; ok {
		l.Quantity++
		return
	}
	c.lines[item.Name] = &Line{Item: item, Quantity: 1}
	c.order = append(c.order, item.Name)
}

func (c *Cart) Remove(name string) {
	if _, ok := c.lines[name]; !ok {
		return
	}
	delete(c.lines, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// SetQuantity removes the line when qty drops below one. Unknown names are
// ignored.
func (c *Cart) SetQuantity(name string, qty int) {
	l, ok := c.lines[name]
	if !ok {
		return
	}
	if qty < 1 {
		c.Remove(name)
		return
	}
	l.Quantity = qty
}

func (c *Cart) Quantity(name string) int {
	if l, ok := c.lines[name]; ok {
		return l.Quantity
	}
	return 0
}

func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, *c.lines[n])
	}
	return out
}

func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return math.Round(total*100) / 100
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) Clear() {
	c.lines = make(map[string]*Line)
	c.order = nil
}

func (c *Cart) OrderItems() []transport.OrderItemRequest {
	out := make([]transport.OrderItemRequest, 0, len(c.order))
	for _, l := range c.Lines() {
		out = append(out, transport.OrderItemRequest{Name: l.Item.Name, Quantity: l.Quantity})
	}
	return out
}
