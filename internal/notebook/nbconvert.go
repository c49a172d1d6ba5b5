// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"bytes"
	"fmt"

	"github.com/pdiddy/nbmerge/internal/container"
)

// nbconvertArgs makes an image whose entrypoint is `jupyter nbconvert` read
// one notebook from stdin and print Markdown on stdout.
var nbconvertArgs = []string{"--to", "markdown", "--stdin", "--stdout"}

// NbconvertExporter exports notebooks by piping them through a Jupyter
// nbconvert container image.
type NbconvertExporter struct {
	runtime container.Runtime
	image   string
}

// NewNbconvertExporter returns an exporter that runs image on rt. It
// verifies that the image exists locally before returning.
func NewNbconvertExporter(rt container.Runtime, image string) (*NbconvertExporter, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("nbconvert image not available in %s: %w", rt.Name(), err)
	}
	return &NbconvertExporter{runtime: rt, image: image}, nil
}

// Export pipes the notebook's original bytes through the container. Outputs
// embedded in the notebook are left to nbconvert, so Resources.Outputs is
// always empty.
func (e *NbconvertExporter) Export(nb *Notebook) (string, Resources, error) {
	if nb == nil || len(nb.Raw) == 0 {
		return "", Resources{}, fmt.Errorf("export: notebook has no source bytes")
	}

	var out bytes.Buffer
	if err := e.runtime.Run(e.image, nbconvertArgs, bytes.NewReader(nb.Raw), &out); err != nil {
		return "", Resources{}, fmt.Errorf("converting %s with nbconvert: %w", nb.Name, err)
	}

	res := Resources{
		Name:            nb.Name,
		OutputExtension: ".md",
		OutputFilesDir:  nb.Name + "_files",
		Outputs:         map[string][]byte{},
	}
	return out.String(), res, nil
}
