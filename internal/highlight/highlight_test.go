package highlight

import (
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "no markers",
			in:   "El hombre avanzó con paso veloz.",
			want: []Segment{{Text: "El hombre avanzó con paso veloz."}},
		},
		{
			name: "single edit",
			in:   "[[ORIGINAL: El hombre caminó rápido]]El hombre avanzó con paso veloz",
			want: []Segment{
				{Original: true, Text: "El hombre caminó rápido"},
				{Text: "El hombre avanzó con paso veloz"},
			},
		},
		{
			name: "edit mid-paragraph",
			in:   "Era tarde. [[ORIGINAL: caminó rápido]]avanzó veloz hacia casa.",
			want: []Segment{
				{Text: "Era tarde. "},
				{Original: true, Text: "caminó rápido"},
				{Text: "avanzó veloz hacia casa."},
			},
		},
		{
			name: "adjacent markers",
			in:   "[[ORIGINAL: uno]]one[[ORIGINAL: dos]]two",
			want: []Segment{
				{Original: true, Text: "uno"},
				{Text: "one"},
				{Original: true, Text: "dos"},
				{Text: "two"},
			},
		},
		{
			name: "empty document",
			in:   "",
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Segments(tc.in)
			if err != nil {
				t.Fatalf("Segments: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Segments = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnclosedMarker(t *testing.T) {
	in := "fine text [[ORIGINAL: never closed"
	if err := Validate(in); err == nil {
		t.Fatal("expected error for unclosed marker")
	}
	if _, err := Strip(in); err == nil {
		t.Fatal("Strip must reject unclosed marker")
	}
	if _, err := Originals(in); err == nil {
		t.Fatal("Originals must reject unclosed marker")
	}
}

// Stripping all marked spans and keeping only the marked spans partitions
// the document: clean text plus audit trail reconstruct every edit.
func TestRoundTrip(t *testing.T) {
	in := "Intro. [[ORIGINAL: caminó rápido]]avanzó veloz. Sigue igual. [[ORIGINAL: la casa vieja]]la vieja casona."

	clean, err := Strip(in)
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	wantClean := "Intro. avanzó veloz. Sigue igual. la vieja casona."
	if clean != wantClean {
		t.Fatalf("Strip = %q, want %q", clean, wantClean)
	}

	origs, err := Originals(in)
	if err != nil {
		t.Fatalf("Originals: %v", err)
	}
	wantOrigs := []string{"caminó rápido", "la casa vieja"}
	if !reflect.DeepEqual(origs, wantOrigs) {
		t.Fatalf("Originals = %v, want %v", origs, wantOrigs)
	}

	// Re-assembling segments yields the input verbatim.
	segs, err := Segments(in)
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	var rebuilt string
	for _, seg := range segs {
		if seg.Original {
			rebuilt += MarkerStart + seg.Text + MarkerEnd
		} else {
			rebuilt += seg.Text
		}
	}
	if rebuilt != in {
		t.Fatalf("rebuilt = %q, want %q", rebuilt, in)
	}
}

func TestStripUntouchedDocument(t *testing.T) {
	in := "Nothing was changed here.\n\nTwo paragraphs."
	clean, err := Strip(in)
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if clean != in {
		t.Fatalf("untouched document must survive Strip unchanged")
	}
	origs, err := Originals(in)
	if err != nil {
		t.Fatalf("Originals: %v", err)
	}
	if len(origs) != 0 {
		t.Fatalf("Originals = %v, want none", origs)
	}
}
