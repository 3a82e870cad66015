package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// writePDF wraps an opaque PNG composite of px × py pixels in a single
// page whose size keeps the pixels at dpi.
func writePDF(pngData []byte, px, py int, dpi float64) ([]byte, error) {
	w := float64(px) * 72 / dpi
	h := float64(py) * 72 / dpi
	// Portrait keeps Size as given; landscape would swap it.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("LayerBoard", true)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("composite", opts, bytes.NewReader(pngData))
	pdf.ImageOptions("composite", 0, 0, w, h, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
