package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/kbimport/internal/core"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleDownloadTemplate serves the blank import template as CSV (default)
// or XLSX.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(core.FormatCSV)
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch core.FileFormat(format) {
	case core.FormatCSV:
		contentType = "text/csv; charset=utf-8"
		err = core.WriteTemplateCSV(&buf)
	case core.FormatXLSX:
		contentType = xlsxContentType
		err = core.WriteTemplateXLSX(&buf)
	default:
		s.fail(w, r, fmt.Errorf("%w: template format %q", core.ErrInvalidFormat, format))
		return
	}
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="knowledge-import-template.%s"`, format))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	_, _ = buf.WriteTo(w)
}
