package flow

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/velasquezhn3/vj-sub000/utils"
)

var (
	// ErrBadDateRange covers unparseable input and end <= start.
	ErrBadDateRange = errors.New("invalid date range")
	// ErrBadPartySize covers non-numeric and non-positive party sizes.
	ErrBadPartySize = errors.New("invalid party size")
)

// isoDate is the storage format for all dates.
const isoDate = "2006-01-02"

var datePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}`)

// ParseDateRange extracts an arrival/departure pair from free text like
// "10/08/2025 - 12/08/2025" or "del 10/08/2025 al 12/08/2025". Dates are
// day/month/year. The departure must be strictly after the arrival.
func ParseDateRange(text string) (start, end time.Time, nights int, err error) {
	tokens := datePattern.FindAllString(text, -1)
	if len(tokens) != 2 {
		return time.Time{}, time.Time{}, 0, ErrBadDateRange
	}

	start, err = parseDay(tokens[0])
	if err != nil {
		return time.Time{}, time.Time{}, 0, ErrBadDateRange
	}
	end, err = parseDay(tokens[1])
	if err != nil {
		return time.Time{}, time.Time{}, 0, ErrBadDateRange
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, 0, ErrBadDateRange
	}

	nights = int(end.Sub(start).Hours() / 24)
	return start, end, nights, nil
}

func parseDay(token string) (time.Time, error) {
	return time.Parse("2/1/2006", strings.ReplaceAll(token, "-", "/"))
}

// ParsePartySize parses a positive integer guest count.
func ParsePartySize(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, ErrBadPartySize
	}
	return n, nil
}

// affirmatives are accepted as terms agreement after diacritic folding, so
// "Sí", "si" and "SI" all land on the same entry.
var affirmatives = map[string]bool{
	"si":       true,
	"yes":      true,
	"acepto":   true,
	"confirmo": true,
	"ok":       true,
	"dale":     true,
}

// IsAffirmative reports whether the text is an accent- and case-insensitive
// agreement.
func IsAffirmative(text string) bool {
	return affirmatives[utils.FoldText(text)]
}

// IsProofAttachment reports whether the media is an image or document, the
// only accepted payment-proof payloads.
func IsProofAttachment(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || strings.HasPrefix(mimeType, "application/")
}
