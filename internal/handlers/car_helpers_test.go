package handlers

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func inNameRange(name, lower, upper string) bool {
	return strings.Compare(name, lower) >= 0 && strings.Compare(name, upper) <= 0
}

func TestSearchNameBoundsMatchesStoredPrefix(t *testing.T) {
	lower, upper := searchNameBounds("onix")

	if lower != "ONIX" {
		t.Fatalf("expected lower bound ONIX, got %q", lower)
	}
	if !strings.HasPrefix(upper, "ONIX") || upper == lower {
		t.Fatalf("expected upper bound to extend ONIX with the sentinel, got %q", upper)
	}

	if !inNameRange("ONIX 1.0", lower, upper) {
		t.Fatal("expected ONIX 1.0 to fall inside the search range for onix")
	}
	if inNameRange("CIVIC", lower, upper) {
		t.Fatal("expected CIVIC to fall outside the search range for onix")
	}
}

func TestSearchNameBoundsTrimsAndUppercases(t *testing.T) {
	lower, _ := searchNameBounds("  Onix 1.0 ")
	if lower != "ONIX 1.0" {
		t.Fatalf("expected trimmed upper-cased bound, got %q", lower)
	}
}

func TestCarSearchFilterShape(t *testing.T) {
	filter := carSearchFilter("onix")

	nameFilter, ok := filter["name"].(bson.M)
	if !ok {
		t.Fatalf("expected range filter on name, got %+v", filter)
	}
	if nameFilter["$gte"] != "ONIX" {
		t.Fatalf("expected $gte ONIX, got %v", nameFilter["$gte"])
	}
	if _, ok := nameFilter["$lte"]; !ok {
		t.Fatalf("expected $lte bound, got %+v", nameFilter)
	}
}

func TestCarListOptionsBrowseSortsNewestFirst(t *testing.T) {
	opts := carListOptions(false)

	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 1 {
		t.Fatalf("expected a single sort key, got %+v", opts.Sort)
	}
	if sort[0].Key != "created" || sort[0].Value != -1 {
		t.Fatalf("expected created desc for browsing, got %+v", sort[0])
	}
}

func TestCarListOptionsSearchSortsByName(t *testing.T) {
	opts := carListOptions(true)

	sort, ok := opts.Sort.(bson.D)
	if !ok || len(sort) != 1 {
		t.Fatalf("expected a single sort key, got %+v", opts.Sort)
	}
	if sort[0].Key != "name" || sort[0].Value != 1 {
		t.Fatalf("expected name asc for stable search pagination, got %+v", sort[0])
	}
}

func TestWhatsAppLinkEncodesPhoneAndName(t *testing.T) {
	link := whatsAppLink("5588999999999", "ONIX 1.0")

	if !strings.HasPrefix(link, "https://api.whatsapp.com/send?phone=5588999999999&text=") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if strings.Contains(link, " ") {
		t.Fatalf("expected query-escaped message, got %s", link)
	}
	if !strings.Contains(link, "ONIX+1.0") {
		t.Fatalf("expected car name in message, got %s", link)
	}
}
