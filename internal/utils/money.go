package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// zeroDecimal currencies are shown without minor units.
var zeroDecimal = map[string]bool{
	"IDR": true,
	"JPY": true,
	"KRW": true,
	"VND": true,
}

// FormatMoney renders amount for documents: "Rp1.250.000" for IDR,
// "USD 1,234.50" for others.
func FormatMoney(amount float64, currency string) string {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if cur == "" {
		cur = "IDR"
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	if cur == "IDR" {
		return fmt.Sprintf("%sRp%s", sign, formatThousand(int64(math.Round(amount)), '.'))
	}
	if zeroDecimal[cur] {
		return fmt.Sprintf("%s%s %s", sign, cur, formatThousand(int64(math.Round(amount)), ','))
	}

	cents := int64(math.Round(amount * 100))
	return fmt.Sprintf("%s%s %s.%02d", sign, cur, formatThousand(cents/100, ','), cents%100)
}

func formatThousand(n int64, sep byte) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(sep)
		}
		out.WriteRune(c)
	}
	return out.String()
}
