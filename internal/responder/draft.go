package responder

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var (
	ErrInvalidDraft = errors.New("invalid draft request")
	ErrNotFound     = errors.New("draft not found")
)

// Position is the taxpayer's stance on the notice.
type Position string

const (
	Agree    Position = "agree"
	Disagree Position = "disagree"
	Partial  Position = "partial"
)

const dateLayout = "2006-01-02"

// DraftRequest carries what the user entered in the response form.
type DraftRequest struct {
	NoticeType    string   `json:"notice_type" form:"notice_type"`
	NoticeDate    string   `json:"notice_date" form:"notice_date"` // YYYY-MM-DD
	TaxYear       int      `json:"tax_year" form:"tax_year"`
	TaxpayerName  string   `json:"taxpayer_name" form:"taxpayer_name"`
	TaxpayerLast4 string   `json:"taxpayer_last4" form:"taxpayer_last4"`
	Position      Position `json:"position" form:"position"`
	Explanation   string   `json:"explanation" form:"explanation"`
}

// Draft is a generated response letter owned by one user.
type Draft struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	NoticeType NoticeType `json:"notice_type"`
	TaxYear    int        `json:"tax_year"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
}

type validDraft struct {
	notice     Notice
	noticeDate time.Time
	req        DraftRequest
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDraft, fmt.Sprintf(format, args...))
}

func (r DraftRequest) validate(now time.Time) (validDraft, error) {
	notice, err := LookupNotice(r.NoticeType)
	if err != nil {
		return validDraft{}, err
	}

	noticeDate, err := time.Parse(dateLayout, strings.TrimSpace(r.NoticeDate))
	if err != nil {
		return validDraft{}, invalid("notice_date must be YYYY-MM-DD")
	}
	if noticeDate.After(now) {
		return validDraft{}, invalid("notice_date is in the future")
	}

	if r.TaxYear < 1990 || r.TaxYear > now.Year() {
		return validDraft{}, invalid("tax_year %d out of range", r.TaxYear)
	}

	r.TaxpayerName = strings.TrimSpace(r.TaxpayerName)
	if r.TaxpayerName == "" || len(r.TaxpayerName) > 200 {
		return validDraft{}, invalid("taxpayer_name is required")
	}

	if len(r.TaxpayerLast4) != 4 || strings.IndexFunc(r.TaxpayerLast4, func(c rune) bool { return !unicode.IsDigit(c) }) >= 0 {
		return validDraft{}, invalid("taxpayer_last4 must be four digits")
	}

	switch r.Position {
	case Agree, Disagree, Partial:
	default:
		return validDraft{}, invalid("position must be agree, disagree or partial")
	}

	r.Explanation = strings.TrimSpace(r.Explanation)
	if r.Position != Agree && r.Explanation == "" {
		return validDraft{}, invalid("explanation is required unless you agree")
	}
	if len(r.Explanation) > 5000 {
		return validDraft{}, invalid("explanation is too long")
	}

	return validDraft{notice: notice, noticeDate: noticeDate, req: r}, nil
}
