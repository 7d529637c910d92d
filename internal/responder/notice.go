package responder

import (
	"errors"
	"sort"
	"strings"
)

var ErrUnknownNoticeType = errors.New("unknown notice type")

// NoticeType identifies the IRS notice or letter being answered.
type NoticeType string

const (
	CP2000 NoticeType = "CP2000"
	CP14   NoticeType = "CP14"
	CP501  NoticeType = "CP501"
	CP504  NoticeType = "CP504"
	LTR525 NoticeType = "LTR525"
)

// Notice describes a supported notice type.
type Notice struct {
	Type        NoticeType `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	// ResponseDays is how long the taxpayer has to respond, counted from the
	// notice date.
	ResponseDays int `json:"response_days"`

	agree    string
	disagree string
}

var notices = map[NoticeType]Notice{
	CP2000: {
		Type:         CP2000,
		Title:        "Proposed changes to your tax return",
		Description:  "Income or payment information on file does not match the return as filed.",
		ResponseDays: 30,
		agree:        "I agree with the proposed changes and have signed the response form. Payment or a payment arrangement request is enclosed.",
		disagree:     "I do not agree with the proposed changes. The income in question was reported correctly, and supporting documents are enclosed.",
	},
	CP14: {
		Type:         CP14,
		Title:        "Balance due",
		Description:  "First notice that unpaid tax is owed.",
		ResponseDays: 21,
		agree:        "I acknowledge the balance due and enclose payment. If payment in full is not possible, I request an installment agreement.",
		disagree:     "I believe the balance shown is incorrect. Records of the payments already made are enclosed.",
	},
	CP501: {
		Type:         CP501,
		Title:        "Reminder of balance due",
		Description:  "Reminder that a balance remains unpaid.",
		ResponseDays: 10,
		agree:        "I acknowledge the remaining balance and enclose payment or a request for a payment plan.",
		disagree:     "My records show this balance was paid or is not owed. Proof of payment is enclosed.",
	},
	CP504: {
		Type:         CP504,
		Title:        "Notice of intent to levy",
		Description:  "Final balance-due notice before the IRS may levy state refunds or other property.",
		ResponseDays: 30,
		agree:        "I acknowledge the balance and request an installment agreement so that collection action is not necessary.",
		disagree:     "I dispute the balance and ask that collection be suspended while the enclosed documentation is reviewed.",
	},
	LTR525: {
		Type:         LTR525,
		Title:        "General 30-day letter (examination report)",
		Description:  "Proposed examination adjustments with appeal rights.",
		ResponseDays: 30,
		agree:        "I agree with the examination report and have signed the enclosed agreement form.",
		disagree:     "I do not agree with the examination report and request a conference with the IRS Independent Office of Appeals. My protest is enclosed.",
	},
}

// LookupNotice returns the notice for t. Matching ignores case and spaces.
func LookupNotice(t string) (Notice, error) {
	key := NoticeType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(t), " ", "")))
	n, ok := notices[key]
	if !ok {
		return Notice{}, ErrUnknownNoticeType
	}
	return n, nil
}

// Notices lists the supported notices ordered by type.
func Notices() []Notice {
	out := make([]Notice, 0, len(notices))
	for _, n := range notices {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
