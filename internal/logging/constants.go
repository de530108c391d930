package logging

// Standard field names for structured log output.
const (
	FieldSender        = "sender"
	FieldMerchant      = "merchant"
	FieldAmount        = "amount"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldReason        = "reason"
	FieldOutcome       = "outcome"
	FieldCount         = "count"
	FieldMessages      = "messages"
	FieldFile          = "file_path"
	FieldOutputFile    = "output_file"
	FieldAddr          = "addr"
	FieldPath          = "path"
	FieldBody          = "body"
)
