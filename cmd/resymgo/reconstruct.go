package main

import (
	"fmt"

	"github.com/resym-go/resymgo/internal/config"
	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/facade"
	"github.com/spf13/cobra"
)

var (
	reconstructKind            string
	reconstructPrimitiveFlavor string
	reconstructAccessFlavor    string
	reconstructNoDeps          bool
	reconstructIgnoreStd       bool
	reconstructHeader          bool
)

var reconstructCmd = &cobra.Command{
	Use:   "reconstruct <pdb-file> <name>",
	Short: "Reconstruct a C++ declaration for a type, symbol, or module",
	Long: `Reconstruct C++ declaration text from PDB type information.

Use --kind to pick what <name> identifies: type (default), symbol, or module
(a module is identified by its object-file path rather than a name).`,
	Args: cobra.ExactArgs(2),
	RunE: runReconstruct,
}

func init() {
	reconstructCmd.Flags().StringVarP(&reconstructKind, "kind", "k", "type", "what to reconstruct: type, symbol, or module")
	reconstructCmd.Flags().StringVar(&reconstructPrimitiveFlavor, "primitives", "portable", "primitive spelling: portable, ms, raw, msvc")
	reconstructCmd.Flags().StringVar(&reconstructAccessFlavor, "access", "automatic", "access specifiers: disabled, always, automatic")
	reconstructCmd.Flags().BoolVar(&reconstructNoDeps, "no-deps", false, "render only the root type, not its dependency closure")
	reconstructCmd.Flags().BoolVar(&reconstructIgnoreStd, "ignore-std", false, "elide std:: types from listings and closures")
	reconstructCmd.Flags().BoolVar(&reconstructHeader, "header", false, "prepend a banner comment with file path and machine type")
}

func runReconstruct(cmd *cobra.Command, args []string) error {
	pdbPath, name := args[0], args[1]

	primitiveFlavor, err := cxx.ParseFlavor(reconstructPrimitiveFlavor)
	if err != nil {
		return err
	}
	accessFlavor, err := cxx.ParseAccessSpecifierFlavor(reconstructAccessFlavor)
	if err != nil {
		return err
	}

	f, err := facade.Load(pdbPath)
	if err != nil {
		return fmt.Errorf("failed to open PDB: %w", err)
	}
	defer f.Close()

	switch reconstructKind {
	case "type":
		policy := config.PolicyFromEnv()
		policy.PrimitiveFlavor = primitiveFlavor
		policy.AccessSpecifiers = accessFlavor
		policy.ReconstructDependencies = !reconstructNoDeps
		policy.IgnoreStdTypes = reconstructIgnoreStd
		policy.PrintHeader = reconstructHeader

		text, _, err := f.ReconstructTypeByName(name, policy)
		if err != nil {
			return err
		}
		fmt.Fprint(output, text)

	case "symbol":
		text, err := f.ReconstructSymbolByName(name, primitiveFlavor, accessFlavor)
		if err != nil {
			return err
		}
		fmt.Fprint(output, text)

	case "module":
		text, err := f.ReconstructModuleByPath(name, primitiveFlavor, accessFlavor)
		if err != nil {
			return err
		}
		fmt.Fprint(output, text)

	default:
		return fmt.Errorf("unknown kind %q: must be type, symbol, or module", reconstructKind)
	}

	return nil
}
