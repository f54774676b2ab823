package facade

import "testing"

func TestMatcherSubstringCaseInsensitive(t *testing.T) {
	match, err := matcher("Foo", true, false)
	if err != nil {
		t.Fatalf("matcher returned error: %v", err)
	}
	if !match("somefoothing") {
		t.Errorf("expected case-insensitive substring match")
	}
	if match("bar") {
		t.Errorf("expected no match for unrelated string")
	}
}

func TestMatcherRegex(t *testing.T) {
	match, err := matcher("^CFoo.*$", false, true)
	if err != nil {
		t.Fatalf("matcher returned error: %v", err)
	}
	if !match("CFooBar") {
		t.Errorf("expected regex match")
	}
	if match("CBarFoo") {
		t.Errorf("expected no regex match")
	}
}

func TestMatcherEmptyFilterMatchesEverything(t *testing.T) {
	match, err := matcher("", false, false)
	if err != nil {
		t.Fatalf("matcher returned error: %v", err)
	}
	if !match("anything") {
		t.Errorf("empty filter should match everything")
	}
}

func TestMachineName(t *testing.T) {
	cases := map[uint16]string{
		0x014c: "x86",
		0x8664: "x86-64",
		0xaa64: "ARM64",
	}
	for machine, want := range cases {
		if got := machineName(machine); got != want {
			t.Errorf("machineName(0x%x) = %q, want %q", machine, got, want)
		}
	}
}
