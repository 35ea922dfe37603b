package workflow

import "testing"

func TestSummarize(t *testing.T) {
	summary := Summarize([]string{"Pending", "Pending", "Dispensed", "Processing"})

	if summary.Total != 4 {
		t.Errorf("expected total 4, got %d", summary.Total)
	}
	if summary.Completed != 1 {
		t.Errorf("expected completed 1, got %d", summary.Completed)
	}
	if summary.InProgress != 1 {
		t.Errorf("expected in progress 1, got %d", summary.InProgress)
	}
	if summary.Pending != 2 {
		t.Errorf("expected pending 2, got %d", summary.Pending)
	}
	if summary.ByStatus["Pending"] != 2 {
		t.Errorf("expected 2 Pending in by-status counts, got %d", summary.ByStatus["Pending"])
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	a := Summarize([]string{"Completed", "Pending", "Monitoring"})
	b := Summarize([]string{"Monitoring", "Completed", "Pending"})

	if a.Completed != b.Completed || a.InProgress != b.InProgress || a.Pending != b.Pending {
		t.Error("expected summaries to be order independent")
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	if summary.Total != 0 || summary.Completed != 0 || summary.InProgress != 0 || summary.Pending != 0 {
		t.Errorf("expected zero summary for no actions, got %+v", summary)
	}
}

func TestSummarize_UnknownStatusCountsAsPending(t *testing.T) {
	summary := Summarize([]string{"Mystery"})
	if summary.Pending != 1 {
		t.Errorf("expected unknown status to count as pending, got %+v", summary)
	}
}

func TestCompletionSets(t *testing.T) {
	for _, s := range []string{"Completed", "Dispensed", "Administered"} {
		if !IsCompleted(s) {
			t.Errorf("expected %q to be completed", s)
		}
	}
	for _, s := range []string{"In Progress", "Processing", "Monitoring", "Accepted"} {
		if !IsInProgress(s) {
			t.Errorf("expected %q to be in progress", s)
		}
	}
	if IsCompleted("Pending") || IsInProgress("Pending") {
		t.Error("expected Pending to be neither completed nor in progress")
	}
}
