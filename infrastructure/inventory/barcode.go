package inventory

import "strings"

const UnknownModel = "Unknown"

// ParseBarcode splits MODEL-MFGDATE-SERIAL codes the way the inventory
// server does when it stores them. Other shapes yield UnknownModel.
func ParseBarcode(code string) (model, mfgDate string) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		return UnknownModel, ""
	}
	return parts[0], parts[1]
}
