package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceNumberRe = regexp.MustCompile(`\d[\d.,' ]*`)
	negotiableRe  = regexp.MustCompile(`(?i)\bVB\b|verhandlungsbasis|\bo\.?\s?b\.?o\b|\bobo\b`)
)

// ParsePrice reads a German or English price label such as "2.500 € VB",
// "1.299,90 €" or "EUR 1,299.00" and rounds it to whole euros. ok is false
// when the label has no amount ("VB", "Zu verschenken").
func ParsePrice(label string) (price int, negotiable, ok bool) {
	negotiable = negotiableRe.MatchString(label)

	raw := strings.TrimSpace(priceNumberRe.FindString(label))
	if raw == "" {
		return 0, negotiable, false
	}
	raw = strings.NewReplacer(" ", "", "'", "").Replace(raw)
	raw = strings.TrimRight(raw, ".,")

	lastDot := strings.LastIndex(raw, ".")
	lastComma := strings.LastIndex(raw, ",")

	var intPart, frac string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Whichever separator comes last is the decimal mark.
		mark := max(lastComma, lastDot)
		intPart, frac = raw[:mark], raw[mark+1:]
	case lastDot >= 0:
		intPart, frac = splitDecimal(raw, ".")
	case lastComma >= 0:
		intPart, frac = splitDecimal(raw, ",")
	default:
		intPart = raw
	}

	intPart = strings.NewReplacer(".", "", ",", "").Replace(intPart)
	n, err := strconv.Atoi(intPart)
	if err != nil {
		return 0, negotiable, false
	}
	if frac != "" && frac[0] >= '5' {
		n++
	}
	return n, negotiable, true
}

// splitDecimal treats sep as a thousands separator when every group after
// it has exactly three digits, and as a decimal mark otherwise.
func splitDecimal(raw, sep string) (intPart, frac string) {
	groups := strings.Split(raw, sep)
	for _, g := range groups[1:] {
		if len(g) != 3 {
			last := len(groups) - 1
			return strings.Join(groups[:last], ""), groups[last]
		}
	}
	return strings.Join(groups, ""), ""
}
