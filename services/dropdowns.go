package services

// StatusOptions lists the lifecycle states a document can be in.
var StatusOptions = []string{
	"draft",
	"sent",
	"accepted",
	"paid",
	"cancelled",
}

// TaxRateOptions are the VAT rates offered in the editor. Any rate between 0
// and 100 is still accepted.
var TaxRateOptions = []int{0, 8, 16}

// TaxModeOptions pairs each tax mode with its editor label.
var TaxModeOptions = []struct {
	Mode  TaxMode
	Label string
}{
	{TaxExclusive, "Tax added on top"},
	{TaxInclusive, "Prices include tax"},
}

// IsValidStatus reports whether status is one of StatusOptions.
func IsValidStatus(status string) bool {
	for _, s := range StatusOptions {
		if s == status {
			return true
		}
	}
	return false
}
