package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPrice(t *testing.T) {
	tests := []struct {
		name         string
		priceCents   int64
		percent      int64
		wantPlatform int64
		wantAuthor   int64
	}{
		{"ten percent of 1000", 1000, 10, 100, 900},
		{"rounding remainder goes to author", 999, 10, 99, 900},
		{"zero commission", 500, 0, 0, 500},
		{"full commission", 500, 100, 500, 0},
		{"one cent price", 1, 10, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, author := SplitPrice(tt.priceCents, tt.percent)
			assert.Equal(t, tt.wantPlatform, platform)
			assert.Equal(t, tt.wantAuthor, author)
		})
	}
}

func TestSplitPriceConservation(t *testing.T) {
	for price := int64(1); price <= 2000; price += 7 {
		for percent := int64(0); percent <= 100; percent += 9 {
			platform, author := SplitPrice(price, percent)
			assert.Equal(t, price, platform+author, "price=%d percent=%d", price, percent)
			assert.GreaterOrEqual(t, platform, int64(0))
			assert.GreaterOrEqual(t, author, int64(0))
		}
	}
}

func TestTransactionTypeDirection(t *testing.T) {
	credits := []TransactionType{TxRecharge, TxQuizSale, TxCourseSale, TxPlatformFee, TxRefund}
	debits := []TransactionType{TxQuizPurchase, TxCoursePurchase, TxWithdrawal, TxServiceCharge, TxPublishingFee}
	for _, tt := range credits {
		assert.Equal(t, DirectionCredit, tt.Direction(), string(tt))
	}
	for _, tt := range debits {
		assert.Equal(t, DirectionDebit, tt.Direction(), string(tt))
	}
}
