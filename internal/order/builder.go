// Package order holds the pure order-building transformations shared by the
// conversation engine and the debug endpoints. Every function takes an Order
// by value and returns a fresh Order; inputs are never mutated in place, which
// keeps the turn-by-turn build debuggable and undo-friendly.
package order

import (
	"fmt"
	"strings"

	"restocall/internal/models"
)

// CreateEmpty returns a blank order with no items or upsells.
func CreateEmpty() models.Order {
	return models.Order{}
}

// AddPizza appends a default pizza item for configuration. The item id is
// derived from its position so it stays stable within the order.
func AddPizza(o models.Order) models.Order {
	pizza := models.PizzaItem{
		ID:       fmt.Sprintf("pizza_%d", len(o.Items)+1),
		Quantity: 1,
	}
	o.Items = append(copyItems(o.Items), pizza)
	return o
}

// SetMode sets delivery or pickup. Any other mode is a no-op.
func SetMode(o models.Order, mode string) models.Order {
	if mode != "delivery" && mode != "pickup" {
		return o
	}
	o.Mode = mode
	return o
}

func SetLocation(o models.Order, locationID string) models.Order {
	o.LocationID = locationID
	return o
}

// SetDeliveryAddress stores the delivery address, trimmed of surrounding
// whitespace.
func SetDeliveryAddress(o models.Order, address string) models.Order {
	o.DeliveryAddress = strings.TrimSpace(address)
	return o
}

func SetSize(o models.Order, pizzaID, size string) models.Order {
	return updateItem(o, pizzaID, func(p models.PizzaItem) models.PizzaItem {
		p.Size = size
		return p
	})
}

func SetCrust(o models.Order, pizzaID, crust string) models.Order {
	return updateItem(o, pizzaID, func(p models.PizzaItem) models.PizzaItem {
		p.Crust = crust
		return p
	})
}

// ToggleTopping removes the topping if the pizza already has it, otherwise
// adds it. Applying it twice with the same arguments is a no-op overall.
func ToggleTopping(o models.Order, pizzaID, topping string) models.Order {
	return updateItem(o, pizzaID, func(p models.PizzaItem) models.PizzaItem {
		if containsString(p.Toppings, topping) {
			p.Toppings = removeString(p.Toppings, topping)
		} else {
			p.Toppings = append(copyStrings(p.Toppings), topping)
		}
		return p
	})
}

func ApplyExtraCheese(o models.Order, pizzaID string, value bool) models.Order {
	return updateItem(o, pizzaID, func(p models.PizzaItem) models.PizzaItem {
		p.ExtraCheese = value
		return p
	})
}

func AddUpsell(o models.Order, u models.Upsell) models.Order {
	o.Upsells = append(copyUpsells(o.Upsells), u)
	return o
}

func SetContact(o models.Order, name, phone string) models.Order {
	o.Contact = models.Contact{Name: name, Phone: phone}
	return o
}

func SetNotes(o models.Order, notes string) models.Order {
	o.Notes = notes
	return o
}

// Reset discards everything and starts over.
func Reset() models.Order {
	return CreateEmpty()
}

// Summarize builds the deterministic human-readable order line:
//
//	You ordered: lg pizza with pepperoni, mushrooms for delivery to 123 Main St. You also added: drink.
//
// Empty toppings render literally as "no toppings", never an empty list.
func Summarize(o models.Order) string {
	descs := make([]string, len(o.Items))
	for i, p := range o.Items {
		toppings := "no toppings"
		if len(p.Toppings) > 0 {
			toppings = strings.Join(p.Toppings, ", ")
		}
		descs[i] = fmt.Sprintf("%s pizza with %s", p.Size, toppings)
	}

	modePart := ""
	if o.Mode == "delivery" && o.DeliveryAddress != "" {
		modePart = " for delivery to " + o.DeliveryAddress
	} else if o.Mode == "pickup" {
		modePart = " for pickup"
	}

	upsellPart := ""
	if len(o.Upsells) > 0 {
		labels := make([]string, len(o.Upsells))
		for i, u := range o.Upsells {
			labels[i] = u.Label
		}
		upsellPart = " You also added: " + strings.Join(labels, ", ") + "."
	}

	return fmt.Sprintf("You ordered: %s%s.%s", strings.Join(descs, "; "), modePart, upsellPart)
}

// ─── Copy helpers ─────────────────────────────────────────────────────────────

// updateItem rewrites the items slice, applying fn to the matching pizza.
// Unknown pizza ids leave the order unchanged apart from the slice copy.
func updateItem(o models.Order, pizzaID string, fn func(models.PizzaItem) models.PizzaItem) models.Order {
	items := make([]models.PizzaItem, len(o.Items))
	for i, p := range o.Items {
		if p.ID == pizzaID {
			p = fn(p)
		}
		items[i] = p
	}
	o.Items = items
	return o
}

func copyItems(items []models.PizzaItem) []models.PizzaItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.PizzaItem, len(items))
	copy(out, items)
	return out
}

func copyStrings(xs []string) []string {
	if len(xs) == 0 {
		return nil
	}
	out := make([]string, len(xs))
	copy(out, xs)
	return out
}

func copyUpsells(xs []models.Upsell) []models.Upsell {
	if len(xs) == 0 {
		return nil
	}
	out := make([]models.Upsell, len(xs))
	copy(out, xs)
	return out
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// removeString filters s out of xs, returning nil when nothing remains so a
// toggle round-trip compares equal to the original.
func removeString(xs []string, s string) []string {
	var out []string
	for _, x := range xs {
		if x != s {
			out = append(out, x)
		}
	}
	return out
}
