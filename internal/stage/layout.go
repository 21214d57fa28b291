package stage

import (
	"fmt"
	"path/filepath"

	"github.com/conn-castle/pkgstage/internal/messages"
)

// Resource is one entry of the static manifest staged from the shared root.
type Resource struct {
	// Name is a human label such as "handshake request schema".
	Name string
	// Source is the slash-separated path under the shared root.
	Source string
	// Dest is the slash-separated path under the module directory.
	Dest string
	// PackageData lists Dest in the descriptor's package data.
	PackageData bool
}

// Layout fixes where the assembler reads from and writes to.
type Layout struct {
	VersionFile string
	VersionDest string
	Launcher    string
	Resources   []Resource
	// MinRuntime is the minimum hosting runtime version; empty skips the check.
	MinRuntime string
}

// DefaultAscend is how many parents separate a module from its shared root.
const DefaultAscend = 2

// DefaultMinRuntime is the oldest Go toolchain the assembler supports.
const DefaultMinRuntime = "1.22"

// DefaultLayout returns the layout of the Python 3 module in the Avro tree.
func DefaultLayout() Layout {
	return Layout{
		VersionFile: "share/VERSION.txt",
		VersionDest: "avro/VERSION.txt",
		Launcher:    "scripts/avro",
		Resources: []Resource{
			{
				Name:        "handshake request schema",
				Source:      "share/schemas/org/apache/avro/ipc/HandshakeRequest.avsc",
				Dest:        "avro/HandshakeRequest.avsc",
				PackageData: true,
			},
			{
				Name:        "handshake response schema",
				Source:      "share/schemas/org/apache/avro/ipc/HandshakeResponse.avsc",
				Dest:        "avro/HandshakeResponse.avsc",
				PackageData: true,
			},
			{
				Name:   "interop test schema",
				Source: "share/test/schemas/interop.avsc",
				Dest:   "avro/tests/interop.avsc",
			},
		},
		MinRuntime: DefaultMinRuntime,
	}
}

// ResolveRoot ascends levels parent directories from moduleDir.
// It does not check that the result exists.
func ResolveRoot(moduleDir string, levels int) (string, error) {
	if !filepath.IsAbs(moduleDir) {
		return "", fmt.Errorf(messages.StagePathNotAbsoluteFmt, "module dir", moduleDir)
	}
	if levels < 0 {
		return "", fmt.Errorf(messages.StageAscendNegativeFmt, levels)
	}
	root := filepath.Clean(moduleDir)
	for i := 0; i < levels; i++ {
		root = filepath.Dir(root)
	}
	return root, nil
}
