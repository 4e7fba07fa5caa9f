package models

// All lists every persistence model in dependency order, for AutoMigrate in
// tests and for the sqlite development database.
func All() []any {
	return []any{
		&UserModel{},
		&UserRoleModel{},
		&CustomerModel{},
		&AddressModel{},
		&AddressLinkModel{},
		&QuotationModel{},
		&QuotationItemModel{},
		&SalesOrderModel{},
		&SalesOrderItemModel{},
		&PaymentEntryModel{},
		&PaymentReferenceModel{},
		&ModeOfPaymentAccountModel{},
		&TicketAutomationModel{},
		&TicketQuotationModel{},
	}
}
