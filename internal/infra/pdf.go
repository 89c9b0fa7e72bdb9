package infra

// pdf.go — PDF ticket generation using go-pdf/fpdf.
// Renders thermal receipt-style tickets for finalized pedidos:
//   - Business name header
//   - Mesa, actor and timestamp
//   - Item table (product name, quantity, subtotal)
//   - Bold total
//
// The output file is saved to storagePath/ticket_{pedido_id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/YSmoncada/MANDALA-PROYECT/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateTicketPDF renders the receipt for a pedido. storagePath is the
// directory where the PDF will be written (created if needed). Returns the
// path to the generated file.
func GenerateTicketPDF(pedido *model.Pedido, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%s.pdf", pedido.ID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "MANDALA", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Ticket de Consumo", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Pedido info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	mesa := ""
	if pedido.Mesa != nil {
		mesa = pedido.Mesa.Numero
	}
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Mesa %s", mesa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if pedido.Mesera != nil {
		pdf.CellFormat(contentW, 4, "Atiende: "+pedido.Mesera.Nombre, "", 1, "L", false, 0, "")
	} else if pedido.Usuario != nil {
		pdf.CellFormat(contentW, 4, "Atiende: "+pedido.Usuario.Nombre, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentW, 4, pedido.FechaHora.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for i := range pedido.Items {
		item := &pedido.Items[i]
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		// Truncate long names
		if len(nombre) > 22 {
			nombre = nombre[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+pedido.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su visita!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
