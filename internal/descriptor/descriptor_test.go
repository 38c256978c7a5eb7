package descriptor

import "testing"

func TestValidRequiresStatusOrManual(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
		want bool
	}{
		{"zero value invalid", Descriptor{}, false},
		{"in-range status valid", Descriptor{Status: 200}, true},
		{"boundary 100 valid", Descriptor{Status: 100}, true},
		{"boundary 600 invalid", Descriptor{Status: 600}, false},
		{"manual overrides missing status", Descriptor{Manual: "site$"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.Valid(); got != tc.want {
				t.Fatalf("Valid() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHeaderCaseInsensitive(t *testing.T) {
	h := NewHeader()
	h.Set("Content-Type", "text/plain")
	if v, ok := h.Get("content-type"); !ok || v != "text/plain" {
		t.Fatalf("Get(lowercase) = (%s, %v), want (text/plain, true)", v, ok)
	}
	h.Del("CONTENT-TYPE")
	if _, ok := h.Get("Content-Type"); ok {
		t.Fatalf("expected header removed after case-insensitive Del")
	}
}

func TestDataLen(t *testing.T) {
	if BytesData([]byte("abc")).Len() != 3 {
		t.Fatalf("bytes length mismatch")
	}
	if TextData("abcd").Len() != 4 {
		t.Fatalf("text length mismatch")
	}
	if StreamData(nil, 10).Len() != 0 {
		t.Fatalf("stream Len() should ignore declared Length")
	}
}
