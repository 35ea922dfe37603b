// Package workflow holds the pure derivation rules shared by every panel:
// department routing, status vocabularies, badge classification, workflow
// step derivation, and aggregate counting. Everything here is a total
// function over strings with no I/O.
package workflow

// Action types a doctor can order.
const (
	ActionPrescription    = "Prescription"
	ActionDiagnosticTest  = "Diagnostic Test"
	ActionReferral        = "Referral"
	ActionCareInstruction = "Care Instruction"
)

// Departments that own clinical actions.
const (
	DepartmentDoctor      = "Doctor"
	DepartmentPharmacy    = "Pharmacy"
	DepartmentDiagnostics = "Diagnostics"
	DepartmentNursing     = "Nursing"
)

// ActionTypes lists the valid action types in display order.
var ActionTypes = []string{
	ActionPrescription,
	ActionDiagnosticTest,
	ActionReferral,
	ActionCareInstruction,
}

// Priorities lists the valid action priorities in escalation order.
var Priorities = []string{"Low", "Medium", "High", "Urgent"}

// PatientStatuses lists the valid patient statuses.
var PatientStatuses = []string{"Admitted", "Under Diagnosis", "Treatment Ongoing", "Discharged"}

// departmentByActionType routes each action type to the department that
// works it. Fixed at creation and never changed afterwards.
var departmentByActionType = map[string]string{
	ActionPrescription:    DepartmentPharmacy,
	ActionDiagnosticTest:  DepartmentDiagnostics,
	ActionReferral:        DepartmentDoctor,
	ActionCareInstruction: DepartmentNursing,
}

// statusesByDepartment is the status vocabulary each department's update
// dialog offers. Referrals have no department worklist, so Doctor has no
// vocabulary beyond Pending.
var statusesByDepartment = map[string][]string{
	DepartmentPharmacy:    {"Pending", "Processing", "Dispensed"},
	DepartmentDiagnostics: {"Pending", "Accepted", "In Progress", "Completed"},
	DepartmentNursing:     {"Pending", "Administered", "Monitoring", "Completed"},
}

// DepartmentForActionType returns the department that owns the given action
// type, or "" for an unknown type.
func DepartmentForActionType(actionType string) string {
	return departmentByActionType[actionType]
}

// StatusesForDepartment returns the status vocabulary for a department's
// worklist, or nil when the department has none.
func StatusesForDepartment(department string) []string {
	return statusesByDepartment[department]
}

// ValidActionType reports whether actionType is one of the known types.
func ValidActionType(actionType string) bool {
	_, ok := departmentByActionType[actionType]
	return ok
}

// ValidPriority reports whether priority is one of the known priorities.
func ValidPriority(priority string) bool {
	for _, p := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// ValidPatientStatus reports whether status is a known patient status.
func ValidPatientStatus(status string) bool {
	for _, s := range PatientStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidStatusForDepartment reports whether status is in the department's
// vocabulary.
func ValidStatusForDepartment(department, status string) bool {
	for _, s := range statusesByDepartment[department] {
		if s == status {
			return true
		}
	}
	return false
}
