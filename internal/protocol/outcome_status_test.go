package protocol

import "testing"

func TestNormalizeOutcomeStatus(t *testing.T) {
	cases := map[string]string{
		" Pass ":    OutcomeStatusPass,
		"PASSED":    OutcomeStatusPass,
		"failure":   OutcomeStatusFail,
		"Skipped":   OutcomeStatusSkip,
		"exception": OutcomeStatusError,
		"weird":     "weird",
	}
	for in, want := range cases {
		if got := NormalizeOutcomeStatus(in); got != want {
			t.Fatalf("normalize %q: got %q want %q", in, got, want)
		}
	}
}

func TestOutcomeStatusPredicates(t *testing.T) {
	if !IsPassedOverall(OutcomeStatusPass) || IsFailedOverall(OutcomeStatusPass) {
		t.Fatal("pass should be passed overall and not failed overall")
	}
	if !IsFailedOverall(OutcomeStatusFail) || IsPassedOverall(OutcomeStatusFail) {
		t.Fatal("fail should be failed overall and not passed overall")
	}
	for _, s := range []string{OutcomeStatusSkip, OutcomeStatusError, "", "unknown"} {
		if IsPassedOverall(s) || IsFailedOverall(s) {
			t.Fatalf("status %q should be neither passed nor failed overall", s)
		}
		if IsDefinitiveOutcomeStatus(s) {
			t.Fatalf("status %q should not be definitive", s)
		}
	}
}

func TestIsValidOutcomeStatus(t *testing.T) {
	for _, s := range []string{"pass", "fail", "skip", "error", "Failed"} {
		if !IsValidOutcomeStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if IsValidOutcomeStatus("") || IsValidOutcomeStatus("running") {
		t.Fatal("empty and running should be rejected")
	}
}
