package domain

// SplitPrice divides a purchase price between the platform and the content
// author. The platform share is floored, so any rounding remainder goes to the
// author. platform + author always equals priceCents exactly.
func SplitPrice(priceCents int64, commissionPercent int64) (platformCents, authorCents int64) {
	platformCents = priceCents * commissionPercent / 100
	authorCents = priceCents - platformCents
	return platformCents, authorCents
}
