package earnings

import (
	"time"

	apperrors "restauranthub/internal/errors"
)

const dateLayout = "2006-01-02"

// ParsePeriod reads the from/to query bounds. Each accepts RFC3339 or a plain date;
// a plain-date to covers that whole day.
func ParsePeriod(from, to string) (Period, error) {
	var p Period

	if from != "" {
		t, _, err := parseBound(from)
		if err != nil {
			return Period{}, apperrors.NewValidationError("invalid from bound",
				apperrors.ValidationDetail{Field: "from", Message: "must be an RFC3339 timestamp or YYYY-MM-DD"})
		}
		p.From = &t
	}

	if to != "" {
		t, dateOnly, err := parseBound(to)
		if err != nil {
			return Period{}, apperrors.NewValidationError("invalid to bound",
				apperrors.ValidationDetail{Field: "to", Message: "must be an RFC3339 timestamp or YYYY-MM-DD"})
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		}
		p.To = &t
	}

	if p.From != nil && p.To != nil && !p.From.Before(*p.To) {
		return Period{}, apperrors.NewValidationError("from must be before to",
			apperrors.ValidationDetail{Field: "from", Message: "must be before to"})
	}
	return p, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
