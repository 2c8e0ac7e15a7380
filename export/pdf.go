package export

import (
	"io"

	"adventure_shop/story"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// TranscriptPDF writes the transcript as a PDF, one paragraph per turn.
func TranscriptPDF(w io.Writer, title string, stats story.Stats, turns []story.Turn) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, tr(story.StatLine(stats)), "", "L", false)
	pdf.Ln(4)

	for _, turn := range turns {
		speaker := "You"
		if turn.IsBot {
			speaker = "Narrator"
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, speaker, "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(turn.Text), "", "L", false)
		pdf.Ln(3)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to render transcript pdf")
	}
	return nil
}
