package workflow

// Badge is the visual classification the dashboard renders for a status:
// a color class for the chip and a dot class for the pulse indicator.
type Badge struct {
	Color string `json:"color"`
	Dot   string `json:"dot"`
}

// badgeByStatus maps every known action and patient status to its badge.
var badgeByStatus = map[string]Badge{
	"Pending":     {Color: "bg-gradient-to-r from-red-50 to-rose-100 text-red-700 border-red-300", Dot: "bg-red-500"},
	"Accepted":    {Color: "bg-gradient-to-r from-blue-50 to-cyan-100 text-blue-700 border-blue-300", Dot: "bg-blue-500"},
	"In Progress": {Color: "bg-gradient-to-r from-yellow-50 to-amber-100 text-yellow-800 border-yellow-300", Dot: "bg-yellow-500"},
	"Processing":  {Color: "bg-gradient-to-r from-orange-50 to-amber-100 text-orange-700 border-orange-300", Dot: "bg-orange-500"},
	"Dispensed":   {Color: "bg-gradient-to-r from-teal-50 to-cyan-100 text-teal-700 border-teal-300", Dot: "bg-teal-500"},
	"Administered": {Color: "bg-gradient-to-r from-indigo-50 to-violet-100 text-indigo-700 border-indigo-300", Dot: "bg-indigo-500"},
	"Monitoring":  {Color: "bg-gradient-to-r from-purple-50 to-fuchsia-100 text-purple-700 border-purple-300", Dot: "bg-purple-500"},
	"Completed":   {Color: "bg-gradient-to-r from-emerald-50 to-green-100 text-emerald-700 border-emerald-300", Dot: "bg-emerald-500"},
	"Cancelled":   {Color: "bg-gradient-to-r from-slate-50 to-gray-100 text-slate-500 border-slate-300", Dot: "bg-slate-400"},

	// Patient statuses
	"Admitted":          {Color: "bg-gradient-to-r from-blue-50 to-indigo-100 text-blue-800 border-blue-300", Dot: "bg-blue-500"},
	"Under Diagnosis":   {Color: "bg-gradient-to-r from-yellow-50 to-orange-100 text-yellow-800 border-yellow-300", Dot: "bg-yellow-500"},
	"Treatment Ongoing": {Color: "bg-gradient-to-r from-orange-50 to-red-100 text-orange-800 border-orange-300", Dot: "bg-orange-500"},
	"Discharged":        {Color: "bg-gradient-to-r from-emerald-50 to-teal-100 text-emerald-800 border-emerald-300", Dot: "bg-emerald-500"},
}

// fallbackBadge is the neutral badge for unknown statuses.
var fallbackBadge = Badge{Color: "bg-slate-50 text-slate-600 border-slate-200", Dot: "bg-slate-400"}

// BadgeForStatus returns the badge for a status string. Unknown statuses get
// the neutral gray fallback; this never fails.
func BadgeForStatus(status string) Badge {
	if badge, ok := badgeByStatus[status]; ok {
		return badge
	}
	return fallbackBadge
}
