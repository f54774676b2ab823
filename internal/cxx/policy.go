package cxx

import (
	"fmt"
	"strings"
)

// AccessSpecifierFlavor controls when access-specifier labels (public:,
// protected:, private:) are emitted for a class/struct/union body.
type AccessSpecifierFlavor uint8

const (
	AccessSpecifierDisabled AccessSpecifierFlavor = iota
	AccessSpecifierAlways
	AccessSpecifierAutomatic
)

// AccessSpecifierFlavorError reports unparseable access-specifier flavor
// text. Kept distinct from PrimitiveFlavorError per the Open Question in
// spec.md §9: the original reuses one error type for both parsers.
type AccessSpecifierFlavorError struct{ Text string }

func (e *AccessSpecifierFlavorError) Error() string {
	return fmt.Sprintf("cxx: unknown access specifier flavor %q", e.Text)
}

// ParseAccessSpecifierFlavor parses "disabled"/"false", "always"/"true", or
// "automatic", case-insensitively.
func ParseAccessSpecifierFlavor(s string) (AccessSpecifierFlavor, error) {
	switch strings.ToLower(s) {
	case "disabled", "false":
		return AccessSpecifierDisabled, nil
	case "always", "true":
		return AccessSpecifierAlways, nil
	case "automatic":
		return AccessSpecifierAutomatic, nil
	default:
		return 0, &AccessSpecifierFlavorError{Text: s}
	}
}

// SizePrintFlavor controls how (and whether) a composite's total size is
// rendered alongside its definition.
type SizePrintFlavor uint8

const (
	SizePrintDisabled SizePrintFlavor = iota
	SizePrintComment
	SizePrintStaticAssert
)

// BracketStyle selects where an opening brace is placed.
type BracketStyle uint8

const (
	BracketSameLine BracketStyle = iota // K&R: `struct Foo {`
	BracketNewLine                      // Allman: `struct Foo\n{`
)

// Policy is the full set of options governing a single render. It is always
// passed explicitly; there is no global mutable configuration.
type Policy struct {
	PrimitiveFlavor         Flavor
	AccessSpecifiers        AccessSpecifierFlavor
	SizePrintFlavor         SizePrintFlavor
	PrintOffsetInfo         bool
	IntegersAsHexadecimal   bool
	Brackets                BracketStyle
	PrintHeader             bool
	ReconstructDependencies bool
	IgnoreStdTypes          bool
	PrintLineNumbers        bool
}

// DefaultPolicy mirrors the defaults a freshly-started CLI/GUI session would
// present: portable primitives, automatic access specifiers, size as a
// comment, K&R braces, no header banner, dependency closure on.
func DefaultPolicy() Policy {
	return Policy{
		PrimitiveFlavor:         FlavorPortable,
		AccessSpecifiers:        AccessSpecifierAutomatic,
		SizePrintFlavor:         SizePrintComment,
		PrintOffsetInfo:         true,
		IntegersAsHexadecimal:   false,
		Brackets:                BracketSameLine,
		PrintHeader:             false,
		ReconstructDependencies: true,
		IgnoreStdTypes:          false,
		PrintLineNumbers:        false,
	}
}
