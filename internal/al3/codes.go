package al3

import (
	"strings"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// lineOfBusinessCodes maps ACORD AL3 line of business codes to the normalized enum
var lineOfBusinessCodes = map[string]domain.LineOfBusiness{
	"AUTOP": domain.LineOfBusinessPersonalAuto,
	"PAUTO": domain.LineOfBusinessPersonalAuto,
	"AUTO":  domain.LineOfBusinessPersonalAuto,
	"HOME":  domain.LineOfBusinessHomeowners,
	"HO":    domain.LineOfBusinessHomeowners,
	"HOMEP": domain.LineOfBusinessHomeowners,
	"DFIRE": domain.LineOfBusinessDwellingFire,
	"DF":    domain.LineOfBusinessDwellingFire,
	"CONDO": domain.LineOfBusinessCondo,
	"HO6":   domain.LineOfBusinessCondo,
	"RENT":  domain.LineOfBusinessRenters,
	"HO4":   domain.LineOfBusinessRenters,
	"UMBRP": domain.LineOfBusinessUmbrella,
	"PUMBR": domain.LineOfBusinessUmbrella,
	"BOP":   domain.LineOfBusinessCommercial,
	"CPKGE": domain.LineOfBusinessCommercial,
	"AUTOB": domain.LineOfBusinessCommercial,
	"WORK":  domain.LineOfBusinessCommercial,
}

// coverageCodes maps AL3 coverage codes to the labels used in material changes
var coverageCodes = map[string]string{
	"BI":    "BI",
	"BIPD":  "BI",
	"PD":    "PD",
	"COMP":  "COMP",
	"OTC":   "COMP",
	"COLL":  "COLL",
	"UM":    "UM",
	"UMBI":  "UM",
	"UIM":   "UIM",
	"UNDUM": "UIM",
	"UMPD":  "UMPD",
	"MEDPM": "MED",
	"MP":    "MED",
	"PIP":   "PIP",
	"RREIM": "RENTAL",
	"TL":    "TOWING",
	"DWELL": "DWELL",
	"COVA":  "DWELL",
	"OS":    "OTHER_STRUCTURES",
	"COVB":  "OTHER_STRUCTURES",
	"PP":    "PERSONAL_PROPERTY",
	"COVC":  "PERSONAL_PROPERTY",
	"LOU":   "LOSS_OF_USE",
	"COVD":  "LOSS_OF_USE",
	"PL":    "LIAB",
	"COVE":  "LIAB",
	"LIAB":  "LIAB",
	"MEDPY": "MED",
	"COVF":  "MED",
	"WIND":  "WIND_HAIL",
	"HURR":  "HURRICANE",
	"EQ":    "EARTHQUAKE",
	"WBU":   "WATER_BACKUP",
}

// LineOfBusinessFromCode normalizes a raw AL3 line of business code.
// Unknown codes map to other; an empty code returns the empty value.
func LineOfBusinessFromCode(code string) domain.LineOfBusiness {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return ""
	}
	if lob, ok := lineOfBusinessCodes[c]; ok {
		return lob
	}
	if domain.IsValidLineOfBusiness(domain.LineOfBusiness(strings.ToLower(c))) {
		return domain.LineOfBusiness(strings.ToLower(c))
	}
	return domain.LineOfBusinessOther
}

// CoverageTypeFromCode normalizes a raw AL3 coverage code. Unknown codes are upper-cased and kept.
func CoverageTypeFromCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if label, ok := coverageCodes[c]; ok {
		return label
	}
	return c
}

// NormalizeSnapshot returns a copy of s with AL3 codes mapped to their normalized values
func NormalizeSnapshot(s domain.PolicySnapshot, lineOfBusinessCode string) domain.PolicySnapshot {
	out := s.Clone()
	if out.LineOfBusiness == "" {
		out.LineOfBusiness = LineOfBusinessFromCode(lineOfBusinessCode)
	} else if !domain.IsValidLineOfBusiness(out.LineOfBusiness) {
		out.LineOfBusiness = LineOfBusinessFromCode(string(out.LineOfBusiness))
	}
	for i := range out.Coverages {
		out.Coverages[i].Type = CoverageTypeFromCode(out.Coverages[i].Type)
	}
	out.PolicyNumber = strings.TrimSpace(out.PolicyNumber)
	out.CarrierName = strings.TrimSpace(out.CarrierName)
	return out
}
