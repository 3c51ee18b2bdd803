package gocardless

// Amount is a provider money value. The amount stays a string until the
// normalizer parses it into a decimal.
type Amount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// RawTransaction is one booked transaction exactly as the provider returns
// it. Field availability varies per bank; the normalizer handles the gaps.
type RawTransaction struct {
	TransactionID                          string   `json:"transactionId"`
	InternalTransactionID                  string   `json:"internalTransactionId"`
	BookingDate                            string   `json:"bookingDate"`
	ValueDate                              string   `json:"valueDate"`
	TransactionAmount                      Amount   `json:"transactionAmount"`
	CreditorName                           string   `json:"creditorName"`
	DebtorName                             string   `json:"debtorName"`
	RemittanceInformationUnstructured      string   `json:"remittanceInformationUnstructured"`
	RemittanceInformationUnstructuredArray []string `json:"remittanceInformationUnstructuredArray"`
	AdditionalInformation                  string   `json:"additionalInformation"`
}

// RequisitionStatus is the current provider-side state of a requisition.
// Accounts is populated once the user has completed authorization.
type RequisitionStatus struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Accounts []string `json:"accounts"`
}

// AccountDetail is the detail record of one authorized bank account.
type AccountDetail struct {
	IBAN      string `json:"iban"`
	OwnerName string `json:"ownerName"`
	Currency  string `json:"currency"`
	Product   string `json:"product"`
}

type institutionResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Logo                 string   `json:"logo"`
	Countries            []string `json:"countries"`
	TransactionTotalDays string   `json:"transaction_total_days"`
}

type requisitionResponse struct {
	ID     string `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

type accountDetailResponse struct {
	Account AccountDetail `json:"account"`
}

type transactionsResponse struct {
	Transactions struct {
		Booked  []RawTransaction `json:"booked"`
		Pending []RawTransaction `json:"pending"`
	} `json:"transactions"`
}

type balancesResponse struct {
	Balances []struct {
		BalanceAmount Amount `json:"balanceAmount"`
		BalanceType   string `json:"balanceType"`
	} `json:"balances"`
}

type tokenResponse struct {
	Access        string `json:"access"`
	AccessExpires int64  `json:"access_expires"`
}
