package main

import (
	"fmt"

	"github.com/resym-go/resymgo/internal/config"
	"github.com/resym-go/resymgo/internal/cxx"
	"github.com/resym-go/resymgo/internal/facade"
	"github.com/spf13/cobra"
)

var (
	diffKind            string
	diffPrimitiveFlavor string
	diffAccessFlavor    string
	diffHeader          bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <pdb-file-from> <pdb-file-to> <name>",
	Short: "Diff a reconstructed type, symbol, or module between two PDBs",
	Args:  cobra.ExactArgs(3),
	RunE:  runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffKind, "kind", "k", "type", "what to diff: type, symbol, or module")
	diffCmd.Flags().StringVar(&diffPrimitiveFlavor, "primitives", "portable", "primitive spelling: portable, ms, raw, msvc")
	diffCmd.Flags().StringVar(&diffAccessFlavor, "access", "automatic", "access specifiers: disabled, always, automatic")
	diffCmd.Flags().BoolVar(&diffHeader, "header", false, "prepend a banner comment naming both files and their machine types")
}

func runDiff(cmd *cobra.Command, args []string) error {
	fromPath, toPath, name := args[0], args[1], args[2]

	primitiveFlavor, err := cxx.ParseFlavor(diffPrimitiveFlavor)
	if err != nil {
		return err
	}
	accessFlavor, err := cxx.ParseAccessSpecifierFlavor(diffAccessFlavor)
	if err != nil {
		return err
	}

	from, err := facade.Load(fromPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", fromPath, err)
	}
	defer from.Close()

	to, err := facade.Load(toPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", toPath, err)
	}
	defer to.Close()

	switch diffKind {
	case "type":
		policy := config.PolicyFromEnv()
		policy.PrimitiveFlavor = primitiveFlavor
		policy.AccessSpecifiers = accessFlavor
		policy.PrintHeader = diffHeader

		d, err := facade.DiffTypeByName(from, to, name, policy)
		if err != nil {
			return err
		}
		fmt.Fprint(output, d.Data)

	case "symbol":
		d, err := facade.DiffSymbolByName(from, to, name, primitiveFlavor, accessFlavor, diffHeader)
		if err != nil {
			return err
		}
		fmt.Fprint(output, d.Data)

	case "module":
		d, err := facade.DiffModuleByPath(from, to, name, primitiveFlavor, accessFlavor, diffHeader)
		if err != nil {
			return err
		}
		fmt.Fprint(output, d.Data)

	default:
		return fmt.Errorf("unknown kind %q: must be type, symbol, or module", diffKind)
	}

	return nil
}
