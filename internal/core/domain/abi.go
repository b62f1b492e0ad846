package domain

import "slices"

// ABI is an Android application binary interface identifier.
type ABI string

// Supported ABIs.
const (
	ABIArmeabiV7a ABI = "armeabi-v7a"
	ABIArm64V8a   ABI = "arm64-v8a"
	ABIX86        ABI = "x86"
	ABIX8664      ABI = "x86_64"
)

// UniversalUnitName names the packaging unit that bundles every ABI.
const UniversalUnitName = "universal"

// canonicalABIs lists the supported ABIs in packaging order.
var canonicalABIs = []ABI{ABIArmeabiV7a, ABIArm64V8a, ABIX86, ABIX8664}

// SupportedABIs returns the supported ABIs in canonical order.
func SupportedABIs() []ABI {
	return slices.Clone(canonicalABIs)
}

// ParseABI reports whether s names a supported ABI.
func ParseABI(s string) (ABI, bool) {
	abi := ABI(s)
	if slices.Contains(canonicalABIs, abi) {
		return abi, true
	}
	return "", false
}

// CanonicalABIs returns the set of abis in canonical order with duplicates removed.
func CanonicalABIs(abis []ABI) []ABI {
	out := make([]ABI, 0, len(abis))
	for _, abi := range canonicalABIs {
		if slices.Contains(abis, abi) {
			out = append(out, abi)
		}
	}
	return out
}
