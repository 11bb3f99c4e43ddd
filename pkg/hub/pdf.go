package hub

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/aretw0/studyhub/pkg/core"
)

const pdfMIME = "application/pdf"

const pdfDataURLPrefix = "data:" + pdfMIME + ";base64,"

// PDFs returns the stored documents.
func (h *Hub) PDFs() []core.PDF { return h.pdfs.Items() }

// AddPDF stores a PDF inline as a base64 data URL. Content that does not
// sniff as a PDF is rejected. Large files are accepted with a warning.
func (h *Hub) AddPDF(ctx context.Context, name string, data []byte) (core.PDF, error) {
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return core.PDF{}, core.Invalid("data", fmt.Sprintf("Please select a PDF file (got %s).", mt.String()))
	}

	if size := int64(len(data)); size > h.opts.pdfWarnBytes {
		h.opts.logger.Warn("storing large pdf", "name", name, "size", humanize.IBytes(uint64(size)))
		h.opts.notifier.Notify(fmt.Sprintf(
			"Warning: this PDF is very large (%s). Storing large files may cause performance issues or exceed storage limits.",
			humanize.IBytes(uint64(size)),
		))
	}

	pdf, err := h.pdfs.Create(ctx, core.PDF{
		Name: strings.TrimSpace(name),
		Data: pdfDataURLPrefix + base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return core.PDF{}, err
	}
	h.opts.notifier.Notify("PDF uploaded!")
	return pdf, nil
}

// PDFData decodes the stored data URL of a document.
func (h *Hub) PDFData(id string) ([]byte, error) {
	pdf, ok := h.pdfs.Find(id)
	if !ok {
		return nil, core.NotFound("pdf", id)
	}
	return DecodeDataURL(pdf.Data)
}

// DecodeDataURL returns the payload of a base64 data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, core.Invalid("data", "not a base64 data URL")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, core.Invalid("data", fmt.Sprintf("invalid base64 payload: %v", err))
	}
	return data, nil
}

// DeletePDF removes a document after confirmation.
func (h *Hub) DeletePDF(ctx context.Context, id string) error {
	name := id
	if p, ok := h.pdfs.Find(id); ok {
		name = p.Name
	}
	if err := h.confirm(fmt.Sprintf("Are you sure you want to delete %q?", name)); err != nil {
		return err
	}
	if err := h.pdfs.Delete(ctx, id); err != nil {
		return err
	}
	h.opts.notifier.Notify("PDF deleted.")
	return nil
}
