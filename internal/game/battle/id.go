package battle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator produces the identifier stamped on a Result. It runs after the
// turn loop, so any draws it takes from src come after every turn's draws.
type IDGenerator interface {
	NewID(src Source) string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func(src Source) string

// NewID calls f.
func (f IDGeneratorFunc) NewID(src Source) string { return f(src) }

// cryptoIDLength is how many characters of the UUID are kept.
const cryptoIDLength = 12

// CryptoIDs derives ids from crypto-random UUIDs and never touches src.
// When the system entropy pool fails it falls back to SourceIDs.
var CryptoIDs IDGenerator = IDGeneratorFunc(func(src Source) string {
	id, err := uuid.NewRandom()
	if err != nil {
		return SourceIDs.NewID(src)
	}
	return id.String()[:cryptoIDLength]
})

// SourceIDs derives ids from one draw of src, rendered as
// "battle-" + base36(floor(draw*1e12)) left-padded with zeros to 8 digits.
// Results are reproducible under a replayed source.
var SourceIDs IDGenerator = IDGeneratorFunc(func(src Source) string {
	entropy := int64(math.Max(math.Floor(src.Float64()*1e12), 0))
	digits := strconv.FormatInt(entropy, 36)
	if pad := 8 - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	return fmt.Sprintf("battle-%s", digits)
})

// FixedID always returns id. Useful when a caller assigns ids itself.
func FixedID(id string) IDGenerator {
	return IDGeneratorFunc(func(Source) string { return id })
}
