package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"material-kb/internal/models"
)

const docxBodyPart = "word/document.xml"

// DOCXParser reads the main document part of an Office Open XML file. Body
// paragraphs become paragraphs; each top-level table becomes a table whose
// first row is the header. Text of nested tables folds into the enclosing cell.
type DOCXParser struct{}

func NewDOCXParser() *DOCXParser {
	return &DOCXParser{}
}

func (p *DOCXParser) Format() models.DocumentFormat {
	return models.FormatDOCX
}

func (p *DOCXParser) Parse(_ context.Context, content []byte) (*Content, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, errors.New("docx archive has no " + docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	return walkDocumentXML(rc)
}

func walkDocumentXML(r io.Reader) (*Content, error) {
	var (
		out        = &Content{}
		decoder    = xml.NewDecoder(r)
		tableDepth int
		inText     bool
		para       strings.Builder
		rows       [][]string
		row        []string
		cellParts  []string
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					rows = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					cellParts = nil
				}
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				if tableDepth > 0 {
					para.WriteString(" ")
				} else {
					para.WriteString("\n")
				}
			}

		case xml.CharData:
			if inText {
				para.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text := para.String()
				if tableDepth == 0 {
					out.Paragraphs = append(out.Paragraphs, text)
				} else if text = strings.TrimSpace(text); text != "" {
					cellParts = append(cellParts, text)
				}
			case "tc":
				if tableDepth == 1 {
					row = append(row, strings.Join(cellParts, " "))
				}
			case "tr":
				if tableDepth == 1 {
					rows = append(rows, row)
				}
			case "tbl":
				if tableDepth == 1 && len(rows) > 0 {
					header := rows[0]
					for i := range header {
						header[i] = strings.TrimSpace(header[i])
					}
					out.Tables = append(out.Tables, models.Table{Header: header, Rows: rows[1:]})
				}
				if tableDepth > 0 {
					tableDepth--
				}
			}
		}
	}

	return out, nil
}
