package probe

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	maxBodyBytes         = 1 << 16
)

// Case labels.
const (
	LabelScenario  = "scenario"
	LabelValid     = "valid"
	LabelShort     = "short"
	LabelLong      = "long"
	LabelProvince  = "province"
	LabelNonDigit  = "non_digit"
	LabelMultiRule = "multi_rule"
)
