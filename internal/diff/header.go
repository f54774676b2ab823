package diff

import "fmt"

// Header returns the banner prepended to a diff when the caller asked for
// one, naming both files being compared and their machine architectures.
// The trailing blank line used for module diffs is the caller's job to add.
func Header(fromPath, fromMachine, toPath, toMachine, version string) string {
	return fmt.Sprintf(
		"//\n"+
			"// Showing differences between two PDB files:\n"+
			"//\n"+
			"// Reference PDB file: %s\n"+
			"// Image architecture: %s\n"+
			"//\n"+
			"// New PDB file: %s\n"+
			"// Image architecture: %s\n"+
			"//\n"+
			"// Information extracted with resymgo v%s\n"+
			"//\n",
		fromPath, fromMachine, toPath, toMachine, version)
}
