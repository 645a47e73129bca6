package domain

const (
	MailTypeSetupShared      = "setup_shared"
	MailTypeEmployeeReplaced = "employee_replaced"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type SetupSharedMailData struct {
	SetupName     string `json:"setupName"`
	WeekStartDate string `json:"weekStartDate"`
	WeekEndDate   string `json:"weekEndDate"`
	SharedBy      string `json:"sharedBy"`
}

type EmployeeReplacedMailData struct {
	SetupName       string   `json:"setupName"`
	Date            string   `json:"date"`
	OldEmployeeName string   `json:"oldEmployeeName"`
	NewEmployeeName string   `json:"newEmployeeName"`
	Positions       []string `json:"positions"`
	ReplacedBy      string   `json:"replacedBy"`
}
