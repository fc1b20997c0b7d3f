package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/pkg/export"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

// Supported extrato export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var extratoHeaders = []string{"Mes", "Data pagamento", "Valor", "Forma", "Observacao"}

type extratoReader interface {
	Extrato(ctx context.Context, p *models.Principal, alunoID int64) (*models.Extrato, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, summary ...string) ([]byte, error)
}

// ExportedFile is a rendered document ready to be streamed.
type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExtratoExportService renders payment statements as CSV or PDF.
type ExtratoExportService struct {
	extratos extratoReader
	csv      csvRenderer
	pdf      pdfRenderer
}

// NewExtratoExportService constructs an ExtratoExportService.
func NewExtratoExportService(extratos extratoReader, csv csvRenderer, pdf pdfRenderer) *ExtratoExportService {
	if csv == nil {
		csv = export.NewCSVExporter(0)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExtratoExportService{extratos: extratos, csv: csv, pdf: pdf}
}

// Export renders the statement of one student in the requested format.
func (s *ExtratoExportService) Export(ctx context.Context, p *models.Principal, alunoID int64, format string) (*ExportedFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, validation.Field("invalid export format", "format", "must be csv or pdf")
	}
	extrato, err := s.extratos.Extrato(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}

	dataset := extratoDataset(extrato)
	filename := fmt.Sprintf("extrato-aluno-%d.%s", alunoID, format)
	if format == ExportFormatCSV {
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, internalError(err, "failed to render extrato")
		}
		return &ExportedFile{Filename: filename, ContentType: "text/csv; charset=utf-8", Body: body}, nil
	}

	summary := []string{
		"Total pago: " + extrato.TotalPago.StringFixed(2),
		"Situacao: " + situacao(extrato.Status),
	}
	if extrato.Status.UltimoPagamento != nil {
		summary = append(summary, "Ultimo pagamento: "+*extrato.Status.UltimoPagamento)
	}
	body, err := s.pdf.Render(dataset, "Extrato - "+extrato.Aluno.Nome, summary...)
	if err != nil {
		return nil, internalError(err, "failed to render extrato")
	}
	return &ExportedFile{Filename: filename, ContentType: "application/pdf", Body: body}, nil
}

func extratoDataset(extrato *models.Extrato) export.Dataset {
	rows := make([]map[string]string, 0, len(extrato.Pagamentos))
	for _, p := range extrato.Pagamentos {
		obs := ""
		if p.Observacao != nil {
			obs = *p.Observacao
		}
		rows = append(rows, map[string]string{
			"Mes":            p.MesReferencia,
			"Data pagamento": p.DataPagamento.Format(dateLayout),
			"Valor":          p.Valor.StringFixed(2),
			"Forma":          p.FormaPagamento,
			"Observacao":     obs,
		})
	}
	return export.Dataset{Headers: extratoHeaders, Rows: rows}
}

func situacao(status models.BillingStatus) string {
	if status.EmDia {
		return "em dia"
	}
	if status.DiasAtraso != nil {
		return fmt.Sprintf("em atraso (%d dias)", *status.DiasAtraso)
	}
	return "em atraso"
}
