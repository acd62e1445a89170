package cart

// LineItem is one cart entry. Name, price and image are captured at add
// time: later catalog reloads never rewrite an existing line.
type LineItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	SKU       string  `json:"sku"`
	Image     string  `json:"image"`
	Quantity  int     `json:"qty"`
}

// Cart is the persisted sequence of line items for one session.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Find returns the line for a product id, or nil.
func (c *Cart) Find(productID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Subtotal sums price*quantity over all lines. The value stays unrounded;
// rounding happens at formatting time only.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, it := range c.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Count sums quantities across lines, not the number of lines.
func (c *Cart) Count() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) add(item LineItem) {
	if existing := c.Find(item.ProductID); existing != nil {
		existing.Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// changeQuantity applies a delta; a result at or below zero removes the line.
func (c *Cart) changeQuantity(productID string, delta int) {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		c.Items[i].Quantity += delta
		if c.Items[i].Quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		return
	}
}

func (c *Cart) remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
