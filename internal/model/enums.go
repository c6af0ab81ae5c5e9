package model

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusApproved QuoteStatus = "APPROVED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusUnpaid        InvoiceStatus = "UNPAID"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"
)

type ServiceRequestStatus string

const (
	ServiceRequestStatusOpen       ServiceRequestStatus = "open"
	ServiceRequestStatusInProgress ServiceRequestStatus = "in_progress"
	ServiceRequestStatusClosed     ServiceRequestStatus = "closed"
)

const (
	MessageTypeCustomerToCompany = "customer_to_company"
	MessageTypeCompanyToCustomer = "company_to_customer"
)

// Thread kinds accepted by the messages filter.
const (
	ThreadTypeServiceRequest = "service_request"
	ThreadTypeWorkOrder      = "work_order"
)

const (
	PaymentSourcePortal  = "portal"
	DefaultPaymentMethod = "card"
)

const (
	ActivityLogin                 = "login"
	ActivityMagicLinkIssued       = "magic_link_issued"
	ActivityQuoteSigned           = "quote_signed"
	ActivityServiceRequestCreated = "service_request_created"
)

const (
	ResourceTypeQuote          = "quote"
	ResourceTypeServiceRequest = "service_request"
)
