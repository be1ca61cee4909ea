package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

func spendingRatio() decimal.Decimal {
	return decimal.NewFromFloat(spendingRatioThreshold)
}

// formatCurrency форматирует сумму в базовой валюте без копеек,
// с разделением разрядов: "UZS 1,234,567"
func formatCurrency(d decimal.Decimal) string {
	s := d.Round(0).String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("UZS ")

	// Вставляем запятые между группами по три цифры
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}

	return b.String()
}
