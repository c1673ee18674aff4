package content

import (
	"embed"
	"io/fs"
)

//go:embed bundled
var bundled embed.FS

// Bundled returns the modules shipped with the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "bundled")
	if err != nil {
		panic(err)
	}
	return sub
}
