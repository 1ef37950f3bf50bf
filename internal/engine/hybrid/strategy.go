// internal/engine/hybrid/strategy.go
package hybrid

import "github.com/law-makers/pagesift/pkg/models"

// Strategy represents the extraction strategy to use
type Strategy int

const (
	// StrategyStatic keeps the result of the plain HTTP fetch
	StrategyStatic Strategy = iota

	// StrategyDynamic renders the page in a headless browser
	StrategyDynamic
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyStatic:
		return "Static"
	case StrategyDynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// Reason explains why a strategy was chosen
type Reason string

const (
	ReasonEnoughContent Reason = "static content sufficient"
	ReasonJSHeavyDomain Reason = "known JS-heavy domain"
	ReasonNoSections    Reason = "no sections extracted"
	ReasonThinContent   Reason = "too little text"
)

// Decision is the outcome of Decide
type Decision struct {
	Strategy Strategy
	Reason   Reason
}

// Decide chooses between keeping the static result and rendering. The
// domain list wins over content checks.
func Decide(url string, sections []models.Section, jsHeavyDomains []string) Decision {
	switch {
	case IsJSHeavy(url, jsHeavyDomains):
		return Decision{StrategyDynamic, ReasonJSHeavyDomain}
	case len(sections) == 0:
		return Decision{StrategyDynamic, ReasonNoSections}
	case TextLength(sections) < MinStaticText:
		return Decision{StrategyDynamic, ReasonThinContent}
	default:
		return Decision{StrategyStatic, ReasonEnoughContent}
	}
}

// ShouldRender is Decide reduced to a yes or no, for callers that only
// need the verdict. The engine calls Decide directly because it logs the
// reason alongside the strategy.
func ShouldRender(url string, sections []models.Section, jsHeavyDomains []string) bool {
	return Decide(url, sections, jsHeavyDomains).Strategy == StrategyDynamic
}
