package generation

import (
	"strconv"
	"strings"
	"time"

	"github.com/mocard/benefits-api/internal/model"
)

// csvHeader is the fixed export header; downstream print shops parse by
// position, so the column set and order must not change.
var csvHeader = []string{
	"Card ID",
	"Control Number",
	"Full Name",
	"Birth Date",
	"Address",
	"Contact Number",
	"Emergency Contact",
	"Clinic ID",
	"Status",
	"Perks Total",
	"Perks Used",
	"Issue Date",
	"Expiry Date",
	"Generated At",
}

// renderCSV writes one header row plus one row per card. Free-text fields
// (name, address) are always double-quoted. The output is deterministic for a
// given card list, so repeat exports of an unchanged batch are byte-identical.
func renderCSV(cards []*model.GeneratedCard) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))

	for _, card := range cards {
		row := []string{
			card.ID.String(),
			card.ControlNumber,
			quoteField(card.FullName),
			card.BirthDate,
			quoteField(card.Address),
			card.ContactNumber,
			card.EmergencyContact,
			card.ClinicID.String(),
			string(card.Status),
			strconv.Itoa(card.PerksTotal),
			strconv.Itoa(card.PerksUsed),
			card.IssueDate.UTC().Format(time.RFC3339),
			card.ExpiryDate.UTC().Format(time.RFC3339),
			card.CreatedAt.UTC().Format(time.RFC3339),
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(row, ","))
	}

	return []byte(b.String())
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
