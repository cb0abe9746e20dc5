package domain

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

// Direction of a ledger entry relative to the user's wallet.
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// TransactionType is the closed set of wallet-affecting events. AmountCents is
// always positive on a WalletTransaction; Direction() carries the sign.
type TransactionType string

const (
	TxRecharge       TransactionType = "recharge"
	TxQuizPurchase   TransactionType = "quiz_purchase"
	TxQuizSale       TransactionType = "quiz_sale"
	TxCoursePurchase TransactionType = "course_purchase"
	TxCourseSale     TransactionType = "course_sale"
	TxWithdrawal     TransactionType = "withdrawal"
	TxPlatformFee    TransactionType = "platform_fee"
	TxRefund         TransactionType = "refund"
	TxServiceCharge  TransactionType = "service_charge"
	TxPublishingFee  TransactionType = "publishing_fee"
)

func (t TransactionType) Direction() Direction {
	switch t {
	case TxRecharge, TxQuizSale, TxCourseSale, TxPlatformFee, TxRefund:
		return DirectionCredit
	case TxQuizPurchase, TxCoursePurchase, TxWithdrawal, TxServiceCharge, TxPublishingFee:
		return DirectionDebit
	}
	return DirectionDebit
}

const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
)

const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

const (
	ContentKindQuiz   = "quiz"
	ContentKindCourse = "course"
)

const (
	QuizStatusPending   = "pending"
	QuizStatusPublished = "published"
	QuizStatusRejected  = "rejected"
)

const (
	CourseStatusPending  = "pending"
	CourseStatusApproved = "approved"
	CourseStatusRejected = "rejected"
)

// PlatformRevenue sources. Quiz publishing fees are absorbed, not recorded as
// revenue, so they carry no source here.
const (
	RevenueQuizPurchase      = "quiz_purchase"
	RevenueCoursePurchase    = "course_purchase"
	RevenueCourseApprovalFee = "course_approval_fee"
)

// Setting keys read by the settlement engine.
const (
	SettingQuizApprovalAmountCents = "paid_quiz_approval_amount_cents"
	SettingCourseApprovalFeeCents  = "course_approval_fee_cents"
	SettingQuizCommissionPercent   = "quiz_platform_commission_percent"
	SettingCourseCommissionPercent = "course_platform_commission_percent"
)

// DefaultSettings seeds the settings table on first boot.
var DefaultSettings = map[string]string{
	SettingQuizApprovalAmountCents: "500",
	SettingCourseApprovalFeeCents:  "500",
	SettingQuizCommissionPercent:   "10",
	SettingCourseCommissionPercent: "15",
}
