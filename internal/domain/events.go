package domain

// Subjects published on the event bus.
const (
	SubjectAuditRecorded   = "audit.recorded"
	SubjectInvoicePaid     = "invoice.paid"
	SubjectPaymentRecorded = "payment.recorded"
	SubjectUserCreated     = "user.created"
)
