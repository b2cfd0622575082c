package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Faultbox/oslexport/pkg/osl"
)

// Summary renders a per-section table of record counts and encoded sizes.
func Summary(sc *osl.Scene, w io.Writer) {
	const prefix = osl.ScalarSize

	materials := prefix + sc.MaterialCount()*osl.MaterialFloats*osl.ScalarSize
	lights := prefix + sc.LightCount()*osl.LightFloats*osl.ScalarSize
	shapes := prefix + sc.TotalTriangleBytes()

	cameras := 0
	cameraBytes := 0
	if sc.HasCamera() {
		cameras = 1
		cameraBytes = osl.CameraFloats * osl.ScalarSize
	}

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Section", "Records", "Size"})
	table.Append([]string{"Camera", strconv.Itoa(cameras), fmtSize(cameraBytes)})
	table.Append([]string{"Textures", "0", fmtSize(prefix)})
	table.Append([]string{"Materials", strconv.Itoa(sc.MaterialCount()), fmtSize(materials)})
	table.Append([]string{"Lights", strconv.Itoa(sc.LightCount()), fmtSize(lights)})
	table.Append([]string{"Shapes", strconv.Itoa(sc.TriangleCount()), fmtSize(shapes)})

	total := "n/a"
	if sc.HasCamera() {
		total = fmtSize(int(sc.EncodedSize()))
	}
	table.SetFooter([]string{"Total", " ", total})
	table.Render()
}

// fmtSize formats a byte count with a bytes/kb/mb unit.
func fmtSize(n int) string {
	switch {
	case n < 1e3:
		return fmt.Sprintf("%d bytes", n)
	case n < 1e6:
		return fmt.Sprintf("%3.1f kb", float64(n)/1e3)
	default:
		return fmt.Sprintf("%3.1f mb", float64(n)/1e6)
	}
}
