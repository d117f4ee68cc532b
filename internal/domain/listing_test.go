package domain

import (
	"reflect"
	"testing"
)

func TestSplitMediaURLsTrimsAndDropsBlanks(t *testing.T) {
	raw := "  https://a/1.jpg  \n\nhttps://a/2.mp4\n   \nhttps://a/3.png"
	got := SplitMediaURLs(raw)
	want := []string{"https://a/1.jpg", "https://a/2.mp4", "https://a/3.png"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMediaURLsRoundTrip(t *testing.T) {
	media := []string{"x.jpg", "y.mp4", "z.png"}
	got := SplitMediaURLs(JoinMediaURLs(media))
	if !reflect.DeepEqual(got, media) {
		t.Fatalf("round trip changed media: %v -> %v", media, got)
	}
}

func TestAmenitiesRoundTrip(t *testing.T) {
	amenities := []string{"Wifi", "Pool", "Air Conditioning"}
	got := SplitAmenities(JoinAmenities(amenities))
	if !reflect.DeepEqual(got, amenities) {
		t.Fatalf("round trip changed amenities: %v -> %v", amenities, got)
	}
}

func TestSplitAmenitiesKeepsEmptyTokens(t *testing.T) {
	// Trailing and doubled commas produce empty tokens; the split preserves
	// the user's literal entry rather than silently filtering.
	got := SplitAmenities("Wifi,,Pool, ")
	want := []string{"Wifi", "", "Pool", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitAmenitiesPreservesOrderAndDuplicates(t *testing.T) {
	got := SplitAmenities("Pool, Wifi, Pool")
	want := []string{"Pool", "Wifi", "Pool"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := ParseCategory("castle"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	c, err := ParseCategory("  Beach ")
	if err != nil {
		t.Fatalf("ParseCategory returned error: %v", err)
	}
	if c != CategoryBeach {
		t.Fatalf("expected beach, got %q", c)
	}
	if CategoryAll.Storable() {
		t.Fatalf("category all must not be storable")
	}
	if !CategoryCabin.Storable() {
		t.Fatalf("expected cabin to be storable")
	}
}

func TestIsOnOffer(t *testing.T) {
	higher := 4500.0
	lower := 3000.0

	if (Listing{Price: 3500}).IsOnOffer() {
		t.Fatalf("listing without original price must not be on offer")
	}
	if !(Listing{Price: 3500, OriginalPrice: &higher}).IsOnOffer() {
		t.Fatalf("expected offer when original price exceeds price")
	}
	if (Listing{Price: 3500, OriginalPrice: &lower}).IsOnOffer() {
		t.Fatalf("original price below price is not an offer")
	}
}
