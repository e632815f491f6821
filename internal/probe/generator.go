package probe

import (
	"context"
	"math/rand"
	"strconv"
	"strings"

	"github.com/okian/cedula/internal/domain/cedula"
	"github.com/okian/cedula/pkg/logger"
)

// Constants for case generation.
const (
	mutationKinds  = 6
	nonDigitRunes  = "abcxyzABC-+ .ñ"
	maxProvinceGen = 99
)

// Scenarios returns the fixed candidates every run includes.
func Scenarios() []Case {
	return []Case{
		{CI: "0548912345", Label: LabelScenario},
		{CI: "9948912345", Label: LabelScenario},
		{CI: "054891234", Label: LabelScenario},
		{CI: "abcdefghij", Label: LabelScenario},
		{CI: "2147483658", Label: LabelScenario},
	}
}

// Generate returns the fixed scenarios followed by n generated cases.
// The same seed yields the same cases.
func Generate(ctx context.Context, n int, seed int64) []Case {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	cases := Scenarios()
	for i := 0; i < n; i++ {
		cases = append(cases, generateCase(rng))
	}
	logger.Get().Debug(ctx, "generated cases", logger.Int("count", len(cases)), logger.Any("seed", seed))
	return cases
}

func generateCase(rng *rand.Rand) Case {
	valid := validCI(rng)
	switch rng.Intn(mutationKinds) {
	case 0:
		// Never empty: an empty segment addresses the usage page.
		return Case{CI: valid[:1+rng.Intn(cedula.Length-1)], Label: LabelShort}
	case 1:
		return Case{CI: valid + digits(rng, 1+rng.Intn(3)), Label: LabelLong}
	case 2:
		code := cedula.MaxProvinceCode + 1 + rng.Intn(maxProvinceGen-cedula.MaxProvinceCode)
		return Case{CI: strconv.Itoa(code) + valid[cedula.ProvinceDigits:], Label: LabelProvince}
	case 3:
		pos := rng.Intn(cedula.Length)
		r := []rune(nonDigitRunes)[rng.Intn(len([]rune(nonDigitRunes)))]
		return Case{CI: valid[:pos] + string(r) + valid[pos+1:], Label: LabelNonDigit}
	case 4:
		code := cedula.MaxProvinceCode + 1 + rng.Intn(maxProvinceGen-cedula.MaxProvinceCode)
		return Case{CI: strconv.Itoa(code) + "x", Label: LabelMultiRule}
	default:
		return Case{CI: valid, Label: LabelValid}
	}
}

// validCI returns a 10-digit CI with a province code between 00 and 24.
func validCI(rng *rand.Rand) string {
	code := rng.Intn(cedula.MaxProvinceCode + 1)
	var b strings.Builder
	if code < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.Itoa(code))
	b.WriteString(digits(rng, cedula.Length-cedula.ProvinceDigits))
	return b.String()
}

func digits(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rng.Intn(10))
	}
	return string(b)
}
