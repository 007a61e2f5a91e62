package cqrs

// ---------- Account queries ----------

// ListAccountsQuery fetches every account in storage order.
type ListAccountsQuery struct{}

// ---------- Transfer queries ----------

// ListTransfersQuery fetches every transfer, most recent first.
type ListTransfersQuery struct{}
