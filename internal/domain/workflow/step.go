package workflow

// StepLabels maps each workflow step to the label the tracker widget shows.
var StepLabels = [5]string{
	DepartmentDoctor,
	DepartmentDiagnostics,
	DepartmentPharmacy,
	DepartmentNursing,
	"Complete",
}

// Step derives the 0-4 tracker position for an action from its status and
// assigned department. First match wins.
//
// Note the pipeline is a fixed Doctor->Diagnostics->Pharmacy->Nursing visual
// regardless of the action's own department, and only the literal statuses
// "Completed" and "Administered" reach step 4: a Pharmacy action that is
// "Dispensed" reports step 2, never Complete. Departments have learned to
// read the tracker this way, so the rule is kept exactly as the dashboard
// has always rendered it.
func Step(status, assignedDepartment string) int {
	if status == "Completed" || status == "Administered" {
		return 4
	}
	if assignedDepartment == DepartmentNursing && status != "Pending" {
		return 3
	}
	if assignedDepartment == DepartmentPharmacy && status != "Pending" {
		return 2
	}
	if assignedDepartment == DepartmentDiagnostics && status != "Pending" {
		return 1
	}
	return 0
}

// StepLabel returns the display label for a derived step. Out-of-range steps
// clamp to the pipeline bounds.
func StepLabel(step int) string {
	if step < 0 {
		step = 0
	}
	if step > 4 {
		step = 4
	}
	return StepLabels[step]
}
