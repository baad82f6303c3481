package order

import (
	"reflect"
	"testing"

	"restocall/internal/models"
)

// ─── Builder transforms ───────────────────────────────────────────────────────

func TestAddPizza_PositionDerivedIDs(t *testing.T) {
	o := CreateEmpty()
	o = AddPizza(o)
	o = AddPizza(o)

	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	if o.Items[0].ID != "pizza_1" || o.Items[1].ID != "pizza_2" {
		t.Errorf("expected ids pizza_1/pizza_2, got %s/%s", o.Items[0].ID, o.Items[1].ID)
	}
	if o.Items[0].Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", o.Items[0].Quantity)
	}
}

func TestAddPizza_DoesNotMutateInput(t *testing.T) {
	base := AddPizza(CreateEmpty())
	next := AddPizza(base)

	if len(base.Items) != 1 {
		t.Errorf("input order was mutated: expected 1 item, got %d", len(base.Items))
	}
	if len(next.Items) != 2 {
		t.Errorf("expected 2 items in result, got %d", len(next.Items))
	}
}

func TestSetMode_RejectsUnknownMode(t *testing.T) {
	o := SetMode(CreateEmpty(), "delivery")
	if o.Mode != "delivery" {
		t.Fatalf("expected mode delivery, got %q", o.Mode)
	}

	o = SetMode(o, "teleport")
	if o.Mode != "delivery" {
		t.Errorf("invalid mode should be a no-op, got %q", o.Mode)
	}
}

func TestSetDeliveryAddress_TrimsWhitespace(t *testing.T) {
	o := SetDeliveryAddress(CreateEmpty(), "  123 Main St  ")
	if o.DeliveryAddress != "123 Main St" {
		t.Errorf("expected trimmed address, got %q", o.DeliveryAddress)
	}
}

func TestSetSizeAndCrust_ByPizzaID(t *testing.T) {
	o := AddPizza(AddPizza(CreateEmpty()))
	o = SetSize(o, "pizza_2", "lg")
	o = SetCrust(o, "pizza_2", "thin")

	if o.Items[0].Size != "" || o.Items[0].Crust != "" {
		t.Errorf("pizza_1 should be untouched, got size=%q crust=%q", o.Items[0].Size, o.Items[0].Crust)
	}
	if o.Items[1].Size != "lg" || o.Items[1].Crust != "thin" {
		t.Errorf("pizza_2 not updated: size=%q crust=%q", o.Items[1].Size, o.Items[1].Crust)
	}
}

func TestToggleTopping_SetSemantics(t *testing.T) {
	o := AddPizza(CreateEmpty())
	o = ToggleTopping(o, "pizza_1", "pepperoni")

	if !reflect.DeepEqual(o.Items[0].Toppings, []string{"pepperoni"}) {
		t.Fatalf("expected [pepperoni], got %v", o.Items[0].Toppings)
	}

	o = ToggleTopping(o, "pizza_1", "pepperoni")
	if len(o.Items[0].Toppings) != 0 {
		t.Errorf("second toggle should remove the topping, got %v", o.Items[0].Toppings)
	}
}

func TestToggleTopping_IsItsOwnInverse(t *testing.T) {
	base := ToggleTopping(AddPizza(CreateEmpty()), "pizza_1", "mushrooms")

	twice := ToggleTopping(ToggleTopping(base, "pizza_1", "bacon"), "pizza_1", "bacon")

	if !reflect.DeepEqual(base, twice) {
		t.Errorf("toggling twice must equal the original order:\n base=%+v\ntwice=%+v", base, twice)
	}
}

func TestApplyExtraCheese(t *testing.T) {
	o := AddPizza(CreateEmpty())
	o = ApplyExtraCheese(o, "pizza_1", true)
	if !o.Items[0].ExtraCheese {
		t.Error("expected extra cheese applied")
	}
	o = ApplyExtraCheese(o, "pizza_1", false)
	if o.Items[0].ExtraCheese {
		t.Error("expected extra cheese removed")
	}
}

func TestSetContactAndNotes(t *testing.T) {
	o := SetContact(CreateEmpty(), "Marie", "5145551234")
	o = SetNotes(o, "ring twice")

	if o.Contact.Name != "Marie" || o.Contact.Phone != "5145551234" {
		t.Errorf("contact not set: %+v", o.Contact)
	}
	if o.Notes != "ring twice" {
		t.Errorf("notes not set: %q", o.Notes)
	}
}

func TestReset_ReturnsEmptyOrder(t *testing.T) {
	if !reflect.DeepEqual(Reset(), CreateEmpty()) {
		t.Error("Reset must equal a fresh empty order")
	}
}

// ─── Summarize ───────────────────────────────────────────────────────────────

func TestSummarize_DeliveryWithUpsell(t *testing.T) {
	o := AddPizza(CreateEmpty())
	o = SetSize(o, "pizza_1", "lg")
	o = ToggleTopping(o, "pizza_1", "pepperoni")
	o = ToggleTopping(o, "pizza_1", "mushrooms")
	o = SetMode(o, "delivery")
	o = SetDeliveryAddress(o, "123 Main St")
	o = AddUpsell(o, models.Upsell{ID: "drink_cola", Label: "drink"})

	want := "You ordered: lg pizza with pepperoni, mushrooms for delivery to 123 Main St. You also added: drink."
	if got := Summarize(o); got != want {
		t.Errorf("summary mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestSummarize_PickupNoToppings(t *testing.T) {
	o := AddPizza(CreateEmpty())
	o = SetSize(o, "pizza_1", "md")
	o = SetMode(o, "pickup")

	want := "You ordered: md pizza with no toppings for pickup."
	if got := Summarize(o); got != want {
		t.Errorf("summary mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestSummarize_MultiplePizzasJoinedWithSemicolon(t *testing.T) {
	o := AddPizza(AddPizza(CreateEmpty()))
	o = SetSize(o, "pizza_1", "sm")
	o = SetSize(o, "pizza_2", "lg")
	o = ToggleTopping(o, "pizza_2", "bacon")

	want := "You ordered: sm pizza with no toppings; lg pizza with bacon."
	if got := Summarize(o); got != want {
		t.Errorf("summary mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestSummarize_DeliveryWithoutAddressOmitsModePart(t *testing.T) {
	o := AddPizza(CreateEmpty())
	o = SetSize(o, "pizza_1", "lg")
	o = SetMode(o, "delivery")

	want := "You ordered: lg pizza with no toppings."
	if got := Summarize(o); got != want {
		t.Errorf("summary mismatch:\n got %q\nwant %q", got, want)
	}
}
