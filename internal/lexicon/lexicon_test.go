package lexicon

import "testing"

func TestResolveAuthor(t *testing.T) {
	r := NewResolver("nova")

	tests := []struct {
		speaker string
		author  string
		want    string
	}{
		{"selene", "selene", "you"},
		{"selene", "Selene", "you"},
		{"selene", "nova", "I"},
		{"selene", "lenka", "Lenka"},
		{"selene", "jaap van der meer", "Jaap Van Der Meer"},
		{"selene", "unknown", ""},
		{"selene", "none", ""},
		{"selene", "", ""},
	}
	for _, tt := range tests {
		got := r.Author(tt.speaker, tt.author)
		if got != tt.want {
			t.Errorf("Author(%q, %q) = %q, want %q", tt.speaker, tt.author, got, tt.want)
		}
	}
}

func TestResolveEntity(t *testing.T) {
	r := NewResolver("nova")

	tests := []struct {
		speaker string
		entity  string
		want    string
	}{
		{"selene", "selene", "you"},
		{"selene", "speaker", "you"},
		{"selene", "nova", "I"},
		{"selene", "piek", "piek"},
	}
	for _, tt := range tests {
		got := r.Entity(tt.speaker, tt.entity)
		if got != tt.want {
			t.Errorf("Entity(%q, %q) = %q, want %q", tt.speaker, tt.entity, got, tt.want)
		}
	}
}

func TestResolvePossessive(t *testing.T) {
	r := NewResolver("nova")

	if got := r.Possessive("selene", "selene"); got != "your" {
		t.Errorf("speaker possessive = %q, want %q", got, "your")
	}
	if got := r.Possessive("selene", "nova"); got != "my" {
		t.Errorf("agent possessive = %q, want %q", got, "my")
	}
	if got := r.Possessive("selene", "piek"); got != "piek" {
		t.Errorf("third-party possessive = %q, want %q", got, "piek")
	}
}

func TestResolveNoReference(t *testing.T) {
	r := NewResolver("nova")
	if got := r.Resolve("selene", Ref{}); got != "selene" {
		t.Errorf("empty ref = %q, want speaker back", got)
	}
}

func TestFixEntityHyphenated(t *testing.T) {
	r := NewResolver("nova")

	// Each token resolves as a possessive relative to the speaker.
	if got := r.FixEntity("selene-s", "selene"); got != "your s" {
		t.Errorf("FixEntity(selene-s) = %q, want %q", got, "your s")
	}

	got := r.FixEntity("piek-mother", "selene")
	if got != "piek mother" {
		t.Errorf("FixEntity(piek-mother) = %q, want %q", got, "piek mother")
	}
}

func TestFixEntityIdempotent(t *testing.T) {
	r := NewResolver("nova")

	inputs := []string{"piek-mother", "selene-s", "bram", "selene", "a-b-c"}
	for _, in := range inputs {
		once := r.FixEntity(in, "selene")
		twice := r.FixEntity(once, "selene")
		if once != twice {
			t.Errorf("FixEntity not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		label  string
		person string
		number string
		known  bool
	}{
		{"i", "first", "singular", true},
		{"I", "first", "singular", true},
		{"you", "second", "singular", true},
		{"she", "third", "singular", true},
		{"they", "third", "plural", true},
		{"piek", "", "", false},
	}
	for _, tt := range tests {
		e, ok := Lookup(tt.label)
		if ok != tt.known {
			t.Errorf("Lookup(%q) known = %v, want %v", tt.label, ok, tt.known)
			continue
		}
		if ok && (e.Person != tt.person || e.Number != tt.number) {
			t.Errorf("Lookup(%q) = %+v, want %s/%s", tt.label, e, tt.person, tt.number)
		}
	}
}

func TestFilteredTypesNames(t *testing.T) {
	tests := []struct {
		types []string
		want  string
	}{
		{[]string{"n2mu:person"}, "person"},
		{[]string{"http://schema.org#Person", "thing"}, "Person"},
		{[]string{"person", "location"}, "person or location"},
		{[]string{"person", "person"}, "person"},
		{[]string{"thing", "entity", "agent"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		got := FilteredTypesNames(tt.types)
		if got != tt.want {
			t.Errorf("FilteredTypesNames(%v) = %q, want %q", tt.types, got, tt.want)
		}
	}
}

func TestDedupKey(t *testing.T) {
	a := DedupKey("joe", "like", "dogs", "Lenka")
	b := DedupKey("joe", "like", "dogs", "Lenka")
	c := DedupKey("joe", "like", "cats", "Lenka")
	if a != b {
		t.Errorf("equal clauses produced different keys: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("different clauses produced the same key: %q", a)
	}
}

func TestFinalFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"piek-mother", "piek mother"},
		{"a  b   c", "a b c"},
		{"  trimmed  ", "trimmed"},
		{"no changes", "no changes"},
	}
	for _, tt := range tests {
		if got := FinalFormat(tt.in); got != tt.want {
			t.Errorf("FinalFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
