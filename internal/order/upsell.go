package order

import "restocall/internal/models"

// The upsell rules are deliberately predictable and explainable rather than
// smart: drinks when there is at least one pizza, dips when the first pizza
// has toppings, extra cheese when it isn't already applied. Only the first
// pizza is inspected, a single-pizza demo heuristic rather than a general
// rule engine. The interface stays stable if a richer engine replaces it:
//
//	Suggest(order) => []Upsell
const (
	UpsellDrink       = "drink_cola"
	UpsellDip         = "dip_garlic"
	UpsellExtraCheese = "extra_cheese"
)

var baseUpsells = []models.Upsell{
	{ID: UpsellDrink, Label: "une boisson gazeuse", Price: 2.99},
	{ID: UpsellDip, Label: "une trempette à l’ail", Price: 1.49},
	{ID: UpsellExtraCheese, Label: "extra fromage", Price: 2.00},
}

// Suggest returns the upsells that make sense for the current order, in a
// fixed deterministic order. Empty when the order has no items.
func Suggest(o models.Order) []models.Upsell {
	if len(o.Items) == 0 {
		return nil
	}

	first := o.Items[0]
	var suggestions []models.Upsell

	suggestions = append(suggestions, findUpsell(UpsellDrink))

	if len(first.Toppings) > 0 {
		suggestions = append(suggestions, findUpsell(UpsellDip))
	}

	if !first.ExtraCheese {
		suggestions = append(suggestions, findUpsell(UpsellExtraCheese))
	}

	return suggestions
}

// Catalog returns the full fixed upsell catalog.
func Catalog() []models.Upsell {
	out := make([]models.Upsell, len(baseUpsells))
	copy(out, baseUpsells)
	return out
}

func findUpsell(id string) models.Upsell {
	for _, u := range baseUpsells {
		if u.ID == id {
			return u
		}
	}
	return models.Upsell{}
}
