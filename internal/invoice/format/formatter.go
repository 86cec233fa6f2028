package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)
)

const DefaultExportFileNameTemplate = "Invoice-{NUMBER}-{YYYY}-{MM}-{DD}.pdf"

// FallbackInvoiceNumber is used in file names when the draft has no number.
const FallbackInvoiceNumber = "001"

// FormatExportFileName builds the exported PDF file name from a template,
// the draft's invoice number and the export time.
//
// This function is PURE:
// - No side effects
// - Fully deterministic
func FormatExportFileName(
	template string,
	invoiceNumber string,
	exportedAt time.Time,
) (string, error) {

	if template == "" {
		return "", fmt.Errorf("export file name template is empty")
	}

	number := strings.TrimSpace(invoiceNumber)
	if number == "" {
		number = FallbackInvoiceNumber
	}
	// Path separators would escape the download directory.
	number = unsafeFileChars.ReplaceAllString(number, "_")

	exportedAt = exportedAt.UTC()
	out := template

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", exportedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", exportedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", exportedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", exportedAt.Format("02"))

	// Checked before the number goes in, so braces in a number stay literal.
	if rest := strings.ReplaceAll(out, "{NUMBER}", ""); strings.ContainsAny(rest, "{}") {
		return "", fmt.Errorf("unresolved token in export file name: %s", out)
	}

	return strings.ReplaceAll(out, "{NUMBER}", number), nil
}
