package notes

import (
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName    = "Times New Roman"
	fontSize    = 13
	headingSize = 15
	titleSize   = 16
)

// WriteDocx writes the notes as a styled Word document at outputPath.
// Sections and bullets mirror Render.
func WriteDocx(title string, n Notes, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, c := range Categories {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), c.String(), true, headingSize)

		items := n.Get(c)
		if len(items) == 0 {
			addStyledRun(doc.AddParagraph(""), noItems, false, fontSize)
			continue
		}
		for _, s := range items {
			addStyledRun(doc.AddParagraph(""), "• "+s, false, fontSize)
		}
	}

	return doc.SaveTo(outputPath)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
