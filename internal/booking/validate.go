package booking

import (
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"consulthub/pkg/models"
)

const dateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^[0-9 +\-()]{7,20}$`)

// Input is the public booking form payload.
type Input struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Company       string `json:"company"`
	ServiceID     string `json:"service_id"`
	PreferredDate string `json:"preferred_date"`
	Message       string `json:"message"`
	Locale        string `json:"locale"`
}

// FieldErrors maps a form field to what is wrong with it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid booking: " + strings.Join(parts, "; ")
}

// Validator checks form input. HasService may be nil, in which case any
// service id is accepted.
type Validator struct {
	HasService    func(id string) bool
	DefaultLocale models.Locale
	Now           func() time.Time
}

func (v Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate trims the input and returns a booking ready to store, minus id
// and timestamps. The error is a FieldErrors when validation fails.
func (v Validator) Validate(in Input) (models.Booking, error) {
	errs := FieldErrors{}

	name := strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		errs["name"] = "must be 2-100 characters"
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email || len(email) > 255 {
		errs["email"] = "must be a valid email address"
	}

	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !phonePattern.MatchString(phone) {
		errs["phone"] = "must be 7-20 digits, spaces or + - ( )"
	}

	company := strings.TrimSpace(in.Company)
	if utf8.RuneCountInString(company) > 200 {
		errs["company"] = "must be at most 200 characters"
	}

	serviceID := strings.TrimSpace(in.ServiceID)
	if serviceID != "" && v.HasService != nil && !v.HasService(serviceID) {
		errs["service_id"] = "unknown service"
	}

	date := strings.TrimSpace(in.PreferredDate)
	if date != "" {
		d, err := time.Parse(dateLayout, date)
		now := v.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		switch {
		case err != nil:
			errs["preferred_date"] = "must be YYYY-MM-DD"
		case d.Before(today):
			errs["preferred_date"] = "must not be in the past"
		}
	}

	message := strings.TrimSpace(in.Message)
	if utf8.RuneCountInString(message) > 2000 {
		errs["message"] = "must be at most 2000 characters"
	}

	if len(errs) > 0 {
		return models.Booking{}, errs
	}

	return models.Booking{
		Name:          name,
		Email:         email,
		Phone:         phone,
		Company:       company,
		ServiceID:     serviceID,
		PreferredDate: date,
		Message:       message,
		Locale:        string(models.ParseLocale(in.Locale, v.DefaultLocale)),
		Status:        models.BookingNew,
	}, nil
}
