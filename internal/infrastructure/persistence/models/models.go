package models

// All lists every persisted model, in creation order.
func All() []any {
	return []any{
		&UserModel{},
		&ServiceRequestModel{},
		&TicketModel{},
		&TicketMessageModel{},
		&CredentialModel{},
	}
}
