package usecase

// ParseUserID is exported for testing
var ParseUserID = parseUserID

// InvalidField is exported for testing
var InvalidField = invalidField

// FormatSellerContext is exported for testing
var FormatSellerContext = formatSellerContext

// Context placeholders exported for testing
const (
	NoChatContext           = noChatContext
	NoRecommendationContext = noRecommendationContext
)
