package model

import "fmt"

// MaxSecondaryLinks caps the alternate candidates kept per record
const MaxSecondaryLinks = 3

// VerificationStatus is the label assigned to a summary sentence.
// The zero value means the sentence has not been verified yet.
type VerificationStatus string

const (
	StatusUnset             VerificationStatus = ""
	StatusVerified          VerificationStatus = "Verified"
	StatusPartiallyVerified VerificationStatus = "Partially verified"
	StatusNotVerified       VerificationStatus = "Not verified"
)

// IsSet reports whether a label has been assigned
func (s VerificationStatus) IsSet() bool {
	return s != StatusUnset
}

func (s VerificationStatus) String() string {
	if s == StatusUnset {
		return "unset"
	}
	return string(s)
}

// ParseStatus returns the canonical status for an exact label match.
// Anything else, including case variants, is rejected.
func ParseStatus(label string) (VerificationStatus, bool) {
	switch s := VerificationStatus(label); s {
	case StatusVerified, StatusPartiallyVerified, StatusNotVerified:
		return s, true
	default:
		return StatusUnset, false
	}
}

// SummarySentence is one atomic factual claim produced by the summarizer
type SummarySentence struct {
	Sentence        string             `json:"sentence"`
	Status          VerificationStatus `json:"status,omitempty"`
	SupportingQuote string             `json:"supporting_quote,omitempty"`
}

// StrategyRecord is one (country, strategy) research subject.
//
// PrimaryLink and RawText use the empty string for "not produced yet".
// Every stage mutates records in place and never drops or reorders them.
type StrategyRecord struct {
	Country          string            `json:"country"`
	StrategyName     string            `json:"strategy_name"`
	PrimaryLink      string            `json:"primary_link,omitempty"`
	SecondaryLinks   []string          `json:"secondary_links,omitempty"`
	RawText          string            `json:"raw_text,omitempty"`
	SummarySentences []SummarySentence `json:"summary_sentences,omitempty"`
	Notes            map[string]string `json:"notes,omitempty"` // Diagnostics only, never read by stage logic
}

// NewStrategyRecord creates a seed record with only the identity fields set
func NewStrategyRecord(country, strategyName string) *StrategyRecord {
	return &StrategyRecord{
		Country:      country,
		StrategyName: strategyName,
	}
}

// HasRawText reports whether the content fetcher produced text for this record
func (r *StrategyRecord) HasRawText() bool {
	return r.RawText != ""
}

// SetNote records a diagnostic key/value pair
func (r *StrategyRecord) SetNote(key, value string) {
	if r.Notes == nil {
		r.Notes = make(map[string]string)
	}
	r.Notes[key] = value
}

// Label returns a short human-readable identifier
func (r *StrategyRecord) Label() string {
	return fmt.Sprintf("%s – %s", r.Country, r.StrategyName)
}
