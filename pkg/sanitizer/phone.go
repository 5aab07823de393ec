package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	// French numbers first, the clientele is almost entirely local.
	supportedRegions = []string{
		"FR",
		"BE",
		"CH",
	}
)

func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsedNumber, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsedNumber) {
			return phonenumbers.Format(parsedNumber, phonenumbers.E164)
		}
	}
	return ""
}
