package dbtypes

import "testing"

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"https://cdn.example.com/a.jpg", `odd "name".png`}
	val, err := in.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var out StringArray
	if err := out.Scan(val); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(out))
	}
	if out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("round trip mismatch: %#v", out)
	}
}

func TestStringArrayScanEmptyAndNil(t *testing.T) {
	var a StringArray
	if err := a.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) failed: %v", err)
	}
	if len(a) != 0 {
		t.Fatalf("expected empty array, got %#v", a)
	}

	if err := a.Scan("{}"); err != nil {
		t.Fatalf("Scan({}) failed: %v", err)
	}
	if len(a) != 0 {
		t.Fatalf("expected empty array, got %#v", a)
	}
}

func TestStringArrayScanRejectsGarbage(t *testing.T) {
	var a StringArray
	if err := a.Scan("not-an-array"); err == nil {
		t.Fatal("expected invalid literal error")
	}
}
