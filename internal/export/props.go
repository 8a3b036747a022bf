package export

import (
	"encoding/xml"
	"fmt"
	"io/fs"

	"github.com/dgallion1/markdoc/internal/document"
	"github.com/fumiama/go-docx"
	"github.com/spf13/afero"
)

const (
	templateName = "default"
	templateDir  = "xml/" + templateName + "/"
	corePropsXML = "docProps/core.xml"
)

type coreProperties struct {
	XMLName xml.Name `xml:"cp:coreProperties"`
	CP      string   `xml:"xmlns:cp,attr"`
	DC      string   `xml:"xmlns:dc,attr"`
	Title   string   `xml:"dc:title,omitempty"`
	Subject string   `xml:"dc:subject,omitempty"`
	Creator string   `xml:"dc:creator,omitempty"`
}

// withInfo writes the title, author and subject into the package's core
// properties. go-docx copies docProps verbatim from its template, so the
// default template is staged in memory with core.xml replaced.
func withInfo(f *docx.Docx, info document.Info) error {
	if info == (document.Info{}) {
		return nil
	}
	mem := afero.NewMemMapFs()
	for _, name := range docx.DefaultTemplateFilesList {
		data, err := fs.ReadFile(docx.TemplateXMLFS, templateDir+name)
		if err != nil {
			return fmt.Errorf("read template %s: %w", name, err)
		}
		if err := afero.WriteFile(mem, templateDir+name, data, 0o644); err != nil {
			return fmt.Errorf("stage template %s: %w", name, err)
		}
	}

	core, err := xml.Marshal(coreProperties{
		CP:      "http://schemas.openxmlformats.org/package/2006/metadata/core-properties",
		DC:      "http://purl.org/dc/elements/1.1/",
		Title:   info.Title,
		Subject: info.Subject,
		Creator: info.Author,
	})
	if err != nil {
		return fmt.Errorf("marshal core properties: %w", err)
	}
	if err := afero.WriteFile(mem, templateDir+corePropsXML, append([]byte(xml.Header), core...), 0o644); err != nil {
		return fmt.Errorf("stage core properties: %w", err)
	}
	f.UseTemplate(templateName, docx.DefaultTemplateFilesList, afero.NewIOFS(mem))
	return nil
}
