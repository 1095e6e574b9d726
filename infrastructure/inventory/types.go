package inventory

const (
	StatusInStock   = "In Stock"
	StatusActivated = "Activated"

	RoleAdmin     = "admin"
	RoleExecutive = "executive"
)

// MessageResponse is the body every mutating endpoint answers with.
type MessageResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// StockOutResult is the stock-out body. Unlike stock-in, success is read
// from Status, not from the HTTP status code.
type StockOutResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (r StockOutResult) Succeeded() bool {
	return r.Status == "success"
}

type StockRow struct {
	Barcode        string  `json:"barcode"`
	Model          string  `json:"model"`
	MfgDate        *string `json:"mfg_date"`
	Status         string  `json:"status"`
	ActivationDate *string `json:"activation_date"`
}

type SummaryRow struct {
	Model        string `json:"model"`
	BatteryCount int    `json:"battery_count"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Report is a CSV document returned by the report download endpoint.
type Report struct {
	Filename string
	CSV      []byte
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleExecutive
}
