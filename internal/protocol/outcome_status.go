package protocol

import "strings"

const (
	OutcomeStatusPass  = "pass"
	OutcomeStatusFail  = "fail"
	OutcomeStatusSkip  = "skip"
	OutcomeStatusError = "error"
)

func NormalizeOutcomeStatus(status string) string {
	switch s := strings.ToLower(strings.TrimSpace(status)); s {
	case "passed", "ok", "success", "succeeded":
		return OutcomeStatusPass
	case "failed", "failure":
		return OutcomeStatusFail
	case "skipped", "ignored":
		return OutcomeStatusSkip
	case "errored", "exception":
		return OutcomeStatusError
	default:
		return s
	}
}

// IsPassedOverall and IsFailedOverall are mutually exclusive; both are false
// for skipped, errored and unknown outcomes.
func IsPassedOverall(status string) bool {
	return NormalizeOutcomeStatus(status) == OutcomeStatusPass
}

func IsFailedOverall(status string) bool {
	return NormalizeOutcomeStatus(status) == OutcomeStatusFail
}

func IsDefinitiveOutcomeStatus(status string) bool {
	switch NormalizeOutcomeStatus(status) {
	case OutcomeStatusPass, OutcomeStatusFail:
		return true
	default:
		return false
	}
}

func IsValidOutcomeStatus(status string) bool {
	switch NormalizeOutcomeStatus(status) {
	case OutcomeStatusPass, OutcomeStatusFail, OutcomeStatusSkip, OutcomeStatusError:
		return true
	default:
		return false
	}
}
