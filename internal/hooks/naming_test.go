package hooks

import "testing"

func TestDecodeNameRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"sync bare", "hS_onRequest"},
		{"async bare", "hA_onUpload"},
		{"event bare", "hE_onHookModuleChanged"},
		{"single category", "hSA_render"},
		{"multi category ascending", "hSABZ_render"},
		{"lowercase policy and categories", "hsab_render"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decoded, ok := DecodeName(tc.in)
			if !ok {
				t.Fatalf("DecodeName(%q) failed to decode", tc.in)
			}
			reencoded := EncodeName(decoded)
			redecoded, ok := DecodeName(reencoded)
			if !ok {
				t.Fatalf("DecodeName(EncodeName(...)) = %q failed to decode", reencoded)
			}
			if redecoded != decoded {
				t.Fatalf("round trip mismatch: %+v != %+v (via %q)", redecoded, decoded, reencoded)
			}
		})
	}
}

func TestEncodeNameOmitsAllCatsCategoryLetters(t *testing.T) {
	got := EncodeName(DecodedName{Policy: PolicySync, Mask: AllCats, HookName: "onRequest"})
	if got != "hS_onRequest" {
		t.Fatalf("EncodeName(AllCats) = %q, want %q", got, "hS_onRequest")
	}
}

func TestEncodeNameOrdersCategoryLettersAscending(t *testing.T) {
	got := EncodeName(DecodedName{Policy: PolicySync, Mask: CategoryBit('Z') | CategoryBit('A') | CategoryBit('M'), HookName: "x"})
	if got != "hSAMZ_x" {
		t.Fatalf("EncodeName(...) = %q, want %q", got, "hSAMZ_x")
	}
}

func TestDecodeNameRejectsMalformedNames(t *testing.T) {
	cases := []string{"", "h", "hS", "hX_foo", "hS_", "hSA", "notahook_x"}
	for _, name := range cases {
		if _, ok := DecodeName(name); ok {
			t.Fatalf("DecodeName(%q) unexpectedly succeeded", name)
		}
	}
}

func TestMatchesInclusiveVsStrict(t *testing.T) {
	a := CategoryBit('A')
	b := CategoryBit('B')

	if !Matches(a, a, false) {
		t.Fatalf("INCLUSIVE should match identical masks")
	}
	if !Matches(a|b, a, false) {
		t.Fatalf("INCLUSIVE should match on any shared bit")
	}
	if Matches(a, b, false) {
		t.Fatalf("INCLUSIVE should not match disjoint masks")
	}
	if !Matches(a, AllCats, false) {
		t.Fatalf("INCLUSIVE query for AllCats should match any concrete mask")
	}
	if !Matches(AllCats, a, false) {
		t.Fatalf("a function mask of AllCats should satisfy any INCLUSIVE query")
	}

	if !Matches(a, a, true) {
		t.Fatalf("STRICT should match identical masks")
	}
	if Matches(a|b, a, true) {
		t.Fatalf("STRICT should reject a superset mask")
	}
	if Matches(a, AllCats, true) {
		t.Fatalf("STRICT query for AllCats should not match a concrete function mask")
	}
	if !Matches(AllCats, AllCats, true) {
		t.Fatalf("STRICT should match two identical AllCats masks")
	}
}

func TestCategoryBitCaseInsensitive(t *testing.T) {
	if CategoryBit('a') != CategoryBit('A') {
		t.Fatalf("CategoryBit should fold case")
	}
	if CategoryBit('A') != 1 {
		t.Fatalf("CategoryBit('A') = %d, want 1", CategoryBit('A'))
	}
	if CategoryBit('Z') != 1<<25 {
		t.Fatalf("CategoryBit('Z') = %d, want bit 25", CategoryBit('Z'))
	}
}
