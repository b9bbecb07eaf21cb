package pdf

import (
	"bytes"
	"fmt"
	"time"

	"bibaha/internal/utils"
	"bibaha/pkg/types"

	"github.com/go-pdf/fpdf"
)

// CertificateRenderer lays out the issued marriage certificate as an A4 PDF.
// Visual fidelity to the printed register is not a goal; the document carries
// the fields a verifier needs: parties, certificate number, registration
// date, verification id and the issuing office.
type CertificateRenderer struct {
	officeName string
}

func NewCertificateRenderer(officeName string) *CertificateRenderer {
	return &CertificateRenderer{officeName: officeName}
}

func (r *CertificateRenderer) Render(app *types.Application, cert types.CertificateNumber, registrationDate time.Time, verificationID string) ([]byte, error) {

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Certificate of Marriage", false)
	doc.AddPage()

	doc.SetFont("Times", "B", 22)
	doc.CellFormat(0, 14, "Certificate of Marriage", "", 1, "C", false, 0, "")

	doc.SetFont("Times", "", 12)
	doc.CellFormat(0, 8, r.officeName, "", 1, "C", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Times", "", 13)
	doc.MultiCell(0, 7, fmt.Sprintf(
		"This is to certify that the marriage between %s and %s was registered on %s.",
		partyName(app.OwnerIdentity), partyName(app.PartnerIdentity),
		registrationDate.Format("2 January 2006"),
	), "", "L", false)
	doc.Ln(6)

	row := func(label, value string) {
		doc.SetFont("Times", "B", 12)
		doc.CellFormat(55, 8, label, "", 0, "L", false, 0, "")
		doc.SetFont("Times", "", 12)
		doc.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Certificate Number", cert.String())
	row("Registration Date", registrationDate.Format("02/01/2006"))
	row("Verification ID", verificationID)
	if app.VerifiedAt != nil {
		row("Verified On", app.VerifiedAt.Format("02/01/2006"))
	}

	doc.Ln(16)
	doc.SetFont("Times", "I", 11)
	doc.CellFormat(0, 8, "This certificate is system generated and carries no signature.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render certificate pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func partyName(p *types.PartyIdentity) string {
	if p == nil {
		return "(unrecorded)"
	}
	name := utils.PtrString(p.FullName)
	if name == "" {
		return "(unrecorded)"
	}
	return name
}
