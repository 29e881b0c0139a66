package services

import (
	"archive/zip"
	"bytes"
	"compress/zlib"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var ErrUnreadableDocument = errors.New("unreadable document")

// maxInflated bounds decompressed document parts.
const maxInflated = 32 << 20

// ExtractText returns the plain text of a pdf, docx or txt document,
// chosen by the extension of filename.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	default:
		if !utf8.Valid(data) {
			return strings.ToValidUTF8(string(data), ""), nil
		}
		return string(data), nil
	}
}

// extractDOCX reads the w:t runs of word/document.xml, one line per w:p.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: word/document.xml missing", ErrUnreadableDocument)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	defer rc.Close()

	var (
		out    strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(io.LimitReader(rc, maxInflated))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

// extractPDF pulls literal strings shown between BT and ET operators out of
// every content stream, inflating Flate streams. It does not handle font
// encodings or hex strings, which is enough for keyword matching on
// text-based PDFs.
func extractPDF(data []byte) (string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", fmt.Errorf("%w: not a pdf", ErrUnreadableDocument)
	}

	var out strings.Builder
	rest := data
	for {
		i := bytes.Index(rest, []byte("stream"))
		if i < 0 {
			break
		}
		body := rest[i+len("stream"):]
		body = bytes.TrimPrefix(body, []byte("\r"))
		body = bytes.TrimPrefix(body, []byte("\n"))
		j := bytes.Index(body, []byte("endstream"))
		if j < 0 {
			break
		}
		content := body[:j]
		rest = body[j+len("endstream"):]

		if zr, err := zlib.NewReader(bytes.NewReader(content)); err == nil {
			inflated, err := io.ReadAll(io.LimitReader(zr, maxInflated))
			_ = zr.Close()
			if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
				content = inflated
			}
		}
		pdfTextObjects(content, &out)
	}
	return strings.TrimSpace(out.String()), nil
}

func pdfTextObjects(content []byte, out *strings.Builder) {
	inText := false
	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '(' && inText:
			s, n := pdfLiteral(content[i:])
			out.WriteString(s)
			i += n - 1
		case c == '(':
			_, n := pdfLiteral(content[i:])
			i += n - 1
		case isPDFOp(content, i, "BT"):
			inText = true
			i++
		case isPDFOp(content, i, "ET"):
			if inText {
				out.WriteByte('\n')
			}
			inText = false
			i++
		case inText && (isPDFOp(content, i, "Td") || isPDFOp(content, i, "TD") || isPDFOp(content, i, "T*")):
			out.WriteByte(' ')
			i++
		}
	}
}

func isPDFOp(b []byte, i int, op string) bool {
	if !bytes.HasPrefix(b[i:], []byte(op)) {
		return false
	}
	before := i == 0 || isPDFSpace(b[i-1])
	after := i+len(op) == len(b) || isPDFSpace(b[i+len(op)])
	return before && after
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\n', '\r', '\t', '\f', 0:
		return true
	}
	return false
}

// pdfLiteral decodes the literal string starting at b[0] == '(' and returns
// it with the number of bytes consumed.
func pdfLiteral(b []byte) (string, int) {
	var out strings.Builder
	depth := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch c {
		case '(':
			if depth > 0 {
				out.WriteByte(c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out.String(), i + 1
			}
			out.WriteByte(c)
		case '\\':
			if i+1 >= len(b) {
				return out.String(), len(b)
			}
			i++
			switch e := b[i]; e {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
			default:
				if e >= '0' && e <= '7' {
					v, k := 0, 0
					for k < 3 && i+k < len(b) && b[i+k] >= '0' && b[i+k] <= '7' {
						v = v*8 + int(b[i+k]-'0')
						k++
					}
					out.WriteByte(byte(v))
					i += k - 1
				} else {
					out.WriteByte(e)
				}
			}
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), len(b)
}
