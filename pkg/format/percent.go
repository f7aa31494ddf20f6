package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/bankstacx/bankstacx/pkg/constants"
)

// Percent renders a dimensionless ratio as a percentage string with two
// decimals (e.g., 0.0825 -> "8.25%").
func Percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*constants.PercentageMultiplier)
}

// Number returns a numeric string with thousands separators (e.g.,
// "-1,234.56"), used when printing raw line-item values.
func Number(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	return sign + formatPositiveNumber(math.Abs(amount))
}

func formatPositiveNumber(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
