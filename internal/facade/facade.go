// Package facade exposes one PDB's types, modules, and symbols as
// reconstructable C++ declarations, wiring together pdb.TypeTable,
// internal/depclosure, internal/render, and internal/diff behind the
// operations a CLI or GUI front end calls.
package facade

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/depclosure"
	"github.com/resym-go/resymgo/internal/diff"
	"github.com/resym-go/resymgo/internal/render"
	"github.com/resym-go/resymgo/internal/resymlog"
	"github.com/resym-go/resymgo/pdb"
)

// version is reported in diff headers; it is not tied to any module
// version scheme, just a label for generated output.
const version = "0.1.0"

var log = resymlog.For("facade")

// Facade owns one opened PDB and the lazily-built indexes over it.
type Facade struct {
	file  *pdb.File
	types *pdb.TypeTable

	renderer  *render.Renderer
	collector *depclosure.Collector
}

// Load opens the PDB at path and prepares it for reconstruction.
func Load(path string) (*Facade, error) {
	file, err := pdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("facade: %w", err)
	}
	return newFacade(file)
}

// LoadReader opens a PDB from an in-memory or otherwise seekable source.
func LoadReader(r io.ReaderAt, size int64) (*Facade, error) {
	file, err := pdb.OpenReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("facade: %w", err)
	}
	return newFacade(file)
}

func newFacade(file *pdb.File) (*Facade, error) {
	types, err := file.Types()
	if err != nil {
		return nil, fmt.Errorf("facade: %w", err)
	}
	return &Facade{
		file:      file,
		types:     types,
		renderer:  render.New(types),
		collector: depclosure.New(types),
	}, nil
}

// Close releases the underlying PDB's resources.
func (f *Facade) Close() error {
	return f.file.Close()
}

// FilePath returns the path the facade was loaded from.
func (f *Facade) FilePath() string {
	return f.file.FilePath()
}

// MachineType returns the PE machine type from the DBI stream.
func (f *Facade) MachineType() uint16 {
	return f.file.MachineType()
}

// NamedID pairs a displayable name with the PDB type index it resolves to.
type NamedID struct {
	Name string
	ID   pdb.TypeIndex
}

func matcher(filter string, caseInsensitive, useRegex bool) (func(string) bool, error) {
	if filter == "" {
		return func(string) bool { return true }, nil
	}
	if useRegex {
		pattern := filter
		if caseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("facade: invalid filter regex: %w", err)
		}
		return re.MatchString, nil
	}
	needle := filter
	if caseInsensitive {
		needle = strings.ToLower(needle)
	}
	return func(s string) bool {
		if caseInsensitive {
			s = strings.ToLower(s)
		}
		return strings.Contains(s, needle)
	}, nil
}

// ListTypes returns every composite/enum type whose name matches filter, in
// type-index order.
func (f *Facade) ListTypes(filter string, caseInsensitive, useRegex, ignoreStd bool) ([]NamedID, error) {
	match, err := matcher(filter, caseInsensitive, useRegex)
	if err != nil {
		return nil, err
	}

	var out []NamedID
	for typ := range f.types.All() {
		name := typ.Name()
		if name == "" {
			continue
		}
		if ignoreStd && strings.HasPrefix(name, "std::") {
			continue
		}
		if !match(name) {
			continue
		}
		out = append(out, NamedID{Name: name, ID: typ.Index()})
	}
	return out, nil
}

// ReconstructTypeByName renders name's full closure under policy, returning
// the C++ text and the type indices that ended up in the closure.
func (f *Facade) ReconstructTypeByName(name string, policy cxx.Policy) (string, []pdb.TypeIndex, error) {
	root, ok := f.findTypeByName(name)
	if !ok {
		return "", nil, &TypeNameNotFoundError{Name: name}
	}

	closure, err := f.collector.Collect(root, policy)
	if err != nil {
		return "", nil, fmt.Errorf("facade: %w", err)
	}

	text, err := f.renderer.RenderClosure(root, closure, policy)
	if err != nil {
		return "", nil, fmt.Errorf("facade: %w", err)
	}

	ids := append([]pdb.TypeIndex{}, closure.ForwardDecls...)
	ids = append(ids, closure.FullDefs...)
	return text, ids, nil
}

func (f *Facade) findTypeByName(name string) (pdb.TypeIndex, bool) {
	for typ := range f.types.ByName(name) {
		return typ.Index(), true
	}
	return 0, false
}

// ListModules returns every module (compiland) whose path matches filter.
func (f *Facade) ListModules(filter string, caseInsensitive, useRegex bool) ([]NamedID, error) {
	match, err := matcher(filter, caseInsensitive, useRegex)
	if err != nil {
		return nil, err
	}

	modules, err := f.file.Modules()
	if err != nil {
		return nil, fmt.Errorf("facade: %w", err)
	}

	var out []NamedID
	for _, m := range modules {
		if !match(m.Name()) {
			continue
		}
		out = append(out, NamedID{Name: m.Name(), ID: pdb.TypeIndex(m.Index())})
	}
	return out, nil
}

// ReconstructModuleByPath renders every type owned by the module at path, in
// PDB order, with dependency reconstruction disabled (each type renders
// standalone, per symbol-declaration semantics).
func (f *Facade) ReconstructModuleByPath(path string, primitiveFlavor cxx.Flavor, accessFlavor cxx.AccessSpecifierFlavor) (string, error) {
	modules, err := f.file.Modules()
	if err != nil {
		return "", fmt.Errorf("facade: %w", err)
	}

	var target *pdb.Module
	for _, m := range modules {
		if m.Name() == path {
			target = m
			break
		}
	}
	if target == nil {
		return "", &ModuleNotFoundError{Path: path}
	}

	policy := cxx.DefaultPolicy()
	policy.PrimitiveFlavor = primitiveFlavor
	policy.AccessSpecifiers = accessFlavor
	policy.ReconstructDependencies = false

	seen := map[pdb.TypeIndex]bool{}
	var b strings.Builder
	for sym := range target.Symbols() {
		ti, ok := typeIndexOf(sym)
		if !ok || ti == 0 || seen[ti] {
			continue
		}
		seen[ti] = true

		text, err := f.renderer.RenderType(pdb.TypeIndex(ti), policy)
		if err != nil {
			log.WithError(err).Warnf("failed to render type 0x%x from module %s", ti, path)
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func typeIndexOf(sym pdb.Symbol) (uint32, bool) {
	switch s := sym.(type) {
	case *pdb.DataSymbol:
		return s.TypeIndex(), true
	case *pdb.FunctionSymbol:
		return s.TypeIndex(), true
	case *pdb.UDTSymbol:
		return s.TypeIndex(), true
	case *pdb.ConstantSymbol:
		return s.TypeIndex(), true
	default:
		return 0, false
	}
}

// ListSymbols returns every symbol name matching filter: the public symbols
// first, then each module's symbols (including locals, labels, blocks and
// thunks).
func (f *Facade) ListSymbols(filter string, caseInsensitive, useRegex, ignoreStd bool) ([]string, error) {
	match, err := matcher(filter, caseInsensitive, useRegex)
	if err != nil {
		return nil, err
	}

	symbolTable, err := f.file.Symbols()
	if err != nil {
		return nil, fmt.Errorf("facade: %w", err)
	}

	var out []string
	for sym := range symbolTable.All() {
		name := sym.Name()
		if name == "" {
			continue
		}
		if ignoreStd && strings.HasPrefix(name, "std::") {
			continue
		}
		if !match(name) {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// ReconstructSymbolByName renders name's declaration, resolving its type by
// name only (reconstruct_dependencies = false), per §4.6.
func (f *Facade) ReconstructSymbolByName(name string, primitiveFlavor cxx.Flavor, accessFlavor cxx.AccessSpecifierFlavor) (string, error) {
	symbolTable, err := f.file.Symbols()
	if err != nil {
		return "", fmt.Errorf("facade: %w", err)
	}

	sym, ok := symbolTable.FindByName(name)
	if !ok {
		return "", &SymbolNotFoundError{Name: name}
	}

	ti, ok := typeIndexOf(sym)
	if !ok || ti == 0 {
		return fmt.Sprintf("// %s (no type information)\n", name), nil
	}

	policy := cxx.DefaultPolicy()
	policy.PrimitiveFlavor = primitiveFlavor
	policy.AccessSpecifiers = accessFlavor
	policy.ReconstructDependencies = false

	text, err := f.renderer.RenderType(pdb.TypeIndex(ti), policy)
	if err != nil {
		return "", fmt.Errorf("facade: %w", err)
	}
	return text, nil
}

// DiffTypeByName reconstructs name from both facades under policy and
// returns their line diff (diff.Generate).
func DiffTypeByName(from, to *Facade, name string, policy cxx.Policy) (diff.Diff, error) {
	fromText, _, fromErr := from.ReconstructTypeByName(name, policy)
	toText, _, toErr := to.ReconstructTypeByName(name, policy)
	if fromErr != nil {
		fromText = ""
	}
	if toErr != nil {
		toText = ""
	}
	if fromText == "" && toText == "" {
		return diff.Diff{}, &TypeNameNotFoundError{Name: name}
	}

	header := ""
	if policy.PrintHeader {
		header = diff.Header(from.FilePath(), machineName(from.MachineType()), to.FilePath(), machineName(to.MachineType()), version)
	}
	return diff.Generate(header+fromText, header+toText), nil
}

// DiffModuleByPath reconstructs path's types from both facades and returns
// their line diff (diff.Generate).
func DiffModuleByPath(from, to *Facade, path string, primitiveFlavor cxx.Flavor, accessFlavor cxx.AccessSpecifierFlavor, printHeader bool) (diff.Diff, error) {
	fromText, fromErr := from.ReconstructModuleByPath(path, primitiveFlavor, accessFlavor)
	toText, toErr := to.ReconstructModuleByPath(path, primitiveFlavor, accessFlavor)
	if fromErr != nil {
		fromText = ""
	}
	if toErr != nil {
		toText = ""
	}
	if fromText == "" && toText == "" {
		return diff.Diff{}, &ModuleNotFoundError{Path: path}
	}

	header := ""
	if printHeader {
		header = diff.Header(from.FilePath(), machineName(from.MachineType()), to.FilePath(), machineName(to.MachineType()), version) + "\n"
	}
	return diff.Generate(header+fromText, header+toText), nil
}

// DiffSymbolByName reconstructs name's declaration from both facades and
// returns their line diff (diff.Generate).
func DiffSymbolByName(from, to *Facade, name string, primitiveFlavor cxx.Flavor, accessFlavor cxx.AccessSpecifierFlavor, printHeader bool) (diff.Diff, error) {
	fromText, fromErr := from.ReconstructSymbolByName(name, primitiveFlavor, accessFlavor)
	toText, toErr := to.ReconstructSymbolByName(name, primitiveFlavor, accessFlavor)
	if fromErr != nil {
		fromText = ""
	}
	if toErr != nil {
		toText = ""
	}
	if fromText == "" && toText == "" {
		return diff.Diff{}, &SymbolNotFoundError{Name: name}
	}

	header := ""
	if printHeader {
		header = diff.Header(from.FilePath(), machineName(from.MachineType()), to.FilePath(), machineName(to.MachineType()), version)
	}
	return diff.Generate(header+fromText, header+toText), nil
}

func machineName(machine uint16) string {
	switch machine {
	case 0x014c:
		return "x86"
	case 0x8664:
		return "x86-64"
	case 0xaa64:
		return "ARM64"
	case 0x01c0, 0x01c4:
		return "ARM"
	default:
		return fmt.Sprintf("unknown(0x%x)", machine)
	}
}
