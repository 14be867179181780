package payment

// ResolveStatus maps a Midtrans transaction_status and fraud_status pair to a
// payment status. Unknown codes resolve to PENDING.
func ResolveStatus(transactionStatus, fraudStatus string) Status {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "accept" {
			return StatusPaid
		}
		return StatusPending
	case "settlement":
		return StatusPaid
	case "cancel", "deny":
		return StatusFailed
	case "expire":
		return StatusExpired
	default:
		return StatusPending
	}
}
