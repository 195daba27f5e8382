/*
Package requirements extracts a structured list of technical requirements
from tender document text using the inference backend, then parses the
model's free-form listing with strict line rules.
*/
package requirements

import "strings"

// Category is the fixed taxonomy tag attached to a requirement for report
// grouping.
type Category string

const (
	CategoryUnspecified   Category = "UNSPECIFIED"
	CategoryHardware      Category = "HARDWARE"
	CategorySoftware      Category = "SOFTWARE"
	CategoryPerformance   Category = "PERFORMANCE"
	CategoryElectrical    Category = "ELECTRICAL"
	CategoryPhysical      Category = "PHYSICAL"
	CategoryEnvironmental Category = "ENVIRONMENTAL"
	CategoryConnectivity  Category = "CONNECTIVITY"
	CategoryCertification Category = "CERTIFICATION"
	CategoryQuality       Category = "QUALITY"
)

// Categories lists every taxonomy tag the extraction prompt may emit.
var Categories = []Category{
	CategoryHardware,
	CategorySoftware,
	CategoryPerformance,
	CategoryElectrical,
	CategoryPhysical,
	CategoryEnvironmental,
	CategoryConnectivity,
	CategoryCertification,
	CategoryQuality,
}

// matchCategory reports the taxonomy tag contained in s, case-insensitively.
func matchCategory(s string) (Category, bool) {
	upper := strings.ToUpper(s)
	for _, c := range Categories {
		if strings.Contains(upper, string(c)) {
			return c, true
		}
	}
	return CategoryUnspecified, false
}

// Requirement is one technical requirement derived from the tender. The ID
// is the ordinal position in the tender's listing and is stable for the run;
// ordering drives report row order and category grouping.
type Requirement struct {
	ID            int
	Category      Category
	Description   string
	Specification string
	// FullText is the text classified against each proposal and printed in
	// the report.
	FullText string
}
