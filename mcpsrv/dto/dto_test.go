package dto

import (
	"reflect"
	"testing"
	"time"

	"github.com/qyinm/savorytui/types"
	"github.com/segmentio/encoding/json"
)

func TestDTOJSONMarshal(t *testing.T) {
	offer := types.NewSpecialOffer("3", "7", "Chocolate Lava Cake", "https://img.example/cake.jpg", "Warm centre", 11.99, 9.59, "Weekend deal", true)
	placed := time.Date(2026, 2, 26, 9, 0, 0, 0, time.UTC)
	order := types.NewOrder(
		"91",
		"Ann",
		"ann@example.com",
		"555-0100",
		[]types.OrderLine{{ID: "7", Name: "Chocolate Lava Cake", Price: 9.59, Quantity: 2}},
		19.18,
		types.StatusOutForDelivery,
		placed,
	)

	b, err := json.Marshal(FromOffer(offer))
	if err != nil {
		t.Fatalf("marshal offer dto: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal offer dto: %v", err)
	}
	if got["id"] != "7" {
		t.Fatalf("unexpected id: %v", got["id"])
	}
	if got["price"] != 9.59 {
		t.Fatalf("unexpected price: %v", got["price"])
	}
	if got["savings"] != 2.4 {
		t.Fatalf("unexpected savings: %v", got["savings"])
	}
	if got["price_label"] != "M9.59" {
		t.Fatalf("unexpected price_label: %v", got["price_label"])
	}

	b, err = json.Marshal(FromOrder(order, placed.Add(3*time.Hour)))
	if err != nil {
		t.Fatalf("marshal order dto: %v", err)
	}
	got = nil
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal order dto: %v", err)
	}
	if got["status"] != "out-for-delivery" {
		t.Fatalf("unexpected status: %v", got["status"])
	}
	if got["status_label"] != "Out for Delivery" {
		t.Fatalf("unexpected status_label: %v", got["status_label"])
	}
	if got["summary"] != "Chocolate Lava Cake (x2)" {
		t.Fatalf("unexpected summary: %v", got["summary"])
	}
	if got["placed_at"] != "2026-02-26T09:00:00Z" {
		t.Fatalf("unexpected placed_at: %v", got["placed_at"])
	}
	if got["placed_ago"] != "3 hours ago" {
		t.Fatalf("unexpected placed_ago: %v", got["placed_ago"])
	}
}

func TestOrderWithoutTimestampOmitsPlacedFields(t *testing.T) {
	order := types.NewOrder("1", "Bo", "bo@example.com", "", nil, 0, types.StatusPending, time.Time{})
	out := FromOrder(order, time.Now())
	if out.PlacedAt != "" || out.PlacedAgo != "" {
		t.Fatalf("expected empty placed fields, got %q %q", out.PlacedAt, out.PlacedAgo)
	}
	if out.Items == nil {
		t.Fatalf("items must marshal as an empty list")
	}
}

func TestDTOFields(t *testing.T) {
	assertNoInterfaceFields(t, reflect.TypeOf(MenuItem{}))
	assertNoInterfaceFields(t, reflect.TypeOf(Offer{}))
	assertNoInterfaceFields(t, reflect.TypeOf(GalleryImage{}))
	assertNoInterfaceFields(t, reflect.TypeOf(Order{}))
	assertNoInterfaceFields(t, reflect.TypeOf(Reservation{}))
}

func assertNoInterfaceFields(t *testing.T, typ reflect.Type) {
	t.Helper()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldType := field.Type

		if field.Anonymous {
			assertNoInterfaceFields(t, fieldType)
			continue
		}

		switch fieldType.Kind() {
		case reflect.Interface:
			t.Fatalf("field %s in %s must not be interface type", field.Name, typ.Name())
		case reflect.Struct:
			assertNoInterfaceFields(t, fieldType)
		case reflect.Slice, reflect.Array:
			if fieldType.Elem().Kind() == reflect.Interface {
				t.Fatalf("field %s in %s must not contain interface elements", field.Name, typ.Name())
			}
			if fieldType.Elem().Kind() == reflect.Struct {
				assertNoInterfaceFields(t, fieldType.Elem())
			}
		}
	}
}
