package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/metrics"
	"quizmart/internal/models"
	"quizmart/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Purchase outcomes.
const (
	StatusAutomaticAccess = "automatic_access"
	StatusEnrolled        = "enrolled"
	StatusPurchased       = "purchased"
)

type PurchaseResult struct {
	Status               string `json:"status"`
	AuthorCreditedCents  int64  `json:"author_credited_cents,omitempty"`
	PlatformRevenueCents int64  `json:"platform_revenue_cents,omitempty"`
}

// SettlementService redistributes funds among buyer, content author and the
// platform treasury for each commercial event. Every multi-step settlement
// runs inside one database transaction; balance mutations are applied in
// ascending user-id order so two settlements touching the same pair of
// accounts cannot deadlock.
type SettlementService struct {
	db             *gorm.DB
	treasuryUserID uint
	settings       *SettingsService
	wallets        *repository.WalletRepository
	transactions   *repository.TransactionRepository
	revenues       *repository.RevenueRepository
	enrollments    *repository.EnrollmentRepository
	quizzes        *repository.QuizRepository
	courses        *repository.CourseRepository
}

func NewSettlementService(
	db *gorm.DB,
	treasuryUserID uint,
	settings *SettingsService,
	wallets *repository.WalletRepository,
	transactions *repository.TransactionRepository,
	revenues *repository.RevenueRepository,
	enrollments *repository.EnrollmentRepository,
	quizzes *repository.QuizRepository,
	courses *repository.CourseRepository,
) *SettlementService {
	return &SettlementService{
		db:             db,
		treasuryUserID: treasuryUserID,
		settings:       settings,
		wallets:        wallets,
		transactions:   transactions,
		revenues:       revenues,
		enrollments:    enrollments,
		quizzes:        quizzes,
		courses:        courses,
	}
}

type balanceOp struct {
	userID      uint
	amountCents int64
	credit      bool
}

// applyBalanceOps runs the ops in ascending user-id order inside tx. A failed
// debit aborts the whole transaction.
func applyBalanceOps(wallets *repository.WalletRepository, ops []balanceOp) error {
	sort.Slice(ops, func(i, j int) bool { return ops[i].userID < ops[j].userID })
	for _, op := range ops {
		if op.credit {
			if err := wallets.Credit(op.userID, op.amountCents); err != nil {
				return err
			}
			continue
		}
		if err := wallets.Debit(op.userID, op.amountCents); err != nil {
			return err
		}
	}
	return nil
}

// PurchaseQuiz settles a quiz enrollment for the buyer.
func (s *SettlementService) PurchaseQuiz(ctx context.Context, buyer *models.User, quizID uint) (*PurchaseResult, error) {
	q, err := s.quizzes.GetByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	res, err := s.purchase(ctx, buyer, domain.ContentKindQuiz, q.ID, q.OwnerID, q.IsPaid, q.PriceCents)
	s.countSettlement(domain.ContentKindQuiz, res, err)
	return res, err
}

// PurchaseCourse settles a course enrollment for the buyer.
func (s *SettlementService) PurchaseCourse(ctx context.Context, buyer *models.User, courseID uint) (*PurchaseResult, error) {
	c, err := s.courses.GetByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	res, err := s.purchase(ctx, buyer, domain.ContentKindCourse, c.ID, c.OwnerID, c.IsPaid, c.PriceCents)
	s.countSettlement(domain.ContentKindCourse, res, err)
	return res, err
}

func (s *SettlementService) countSettlement(kind string, res *PurchaseResult, err error) {
	switch {
	case err == domain.ErrInsufficientFunds:
		metrics.SettlementsTotal.WithLabelValues(kind, "insufficient_funds").Inc()
	case err == domain.ErrInvalidPrice:
		metrics.SettlementsTotal.WithLabelValues(kind, "invalid_price").Inc()
	case err == nil && res != nil:
		metrics.SettlementsTotal.WithLabelValues(kind, res.Status).Inc()
	}
}

func (s *SettlementService) purchase(ctx context.Context, buyer *models.User, kind string, contentID, ownerID uint, isPaid bool, priceCents int64) (*PurchaseResult, error) {
	// Owner and elevated roles get access without any ledger activity.
	if buyer.ID == ownerID || buyer.IsAdmin() {
		return &PurchaseResult{Status: StatusAutomaticAccess}, nil
	}

	if !isPaid {
		if _, err := s.enrollments.GetOrCreate(kind, contentID, buyer.ID); err != nil {
			return nil, err
		}
		return &PurchaseResult{Status: StatusEnrolled}, nil
	}

	if priceCents <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	commissionKey := domain.SettingQuizCommissionPercent
	revenueSource := domain.RevenueQuizPurchase
	purchaseType, saleType := domain.TxQuizPurchase, domain.TxQuizSale
	if kind == domain.ContentKindCourse {
		commissionKey = domain.SettingCourseCommissionPercent
		revenueSource = domain.RevenueCoursePurchase
		purchaseType, saleType = domain.TxCoursePurchase, domain.TxCourseSale
	}
	percent, err := s.settings.GetInt64(ctx, commissionKey)
	if err != nil {
		return nil, fmt.Errorf("read commission setting: %w", err)
	}
	platformCents, authorCents := domain.SplitPrice(priceCents, percent)

	result := &PurchaseResult{
		Status:               StatusPurchased,
		AuthorCreditedCents:  authorCents,
		PlatformRevenueCents: platformCents,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		created, err := s.enrollments.WithTx(tx).GetOrCreate(kind, contentID, buyer.ID)
		if err != nil {
			return err
		}
		if !created {
			// Already enrolled: nothing to charge.
			result = &PurchaseResult{Status: StatusEnrolled}
			return nil
		}
		if err := applyBalanceOps(s.wallets.WithTx(tx), []balanceOp{
			{userID: buyer.ID, amountCents: priceCents, credit: false},
			{userID: ownerID, amountCents: authorCents, credit: true},
			{userID: s.treasuryUserID, amountCents: platformCents, credit: true},
		}); err != nil {
			return err
		}

		now := time.Now()
		txRepo := s.transactions.WithTx(tx)
		entries := []*models.WalletTransaction{
			{
				TransactionID: "pur-" + uuid.New().String(),
				UserID:        buyer.ID,
				Type:          purchaseType,
				AmountCents:   priceCents,
			},
			{
				TransactionID: "sal-" + uuid.New().String(),
				UserID:        ownerID,
				Type:          saleType,
				AmountCents:   authorCents,
			},
			{
				TransactionID: "fee-" + uuid.New().String(),
				UserID:        s.treasuryUserID,
				Type:          domain.TxPlatformFee,
				AmountCents:   platformCents,
			},
		}
		for _, e := range entries {
			e.Status = domain.TxStatusCompleted
			e.CompletedAt = &now
			if kind == domain.ContentKindQuiz {
				e.QuizID = &contentID
			} else {
				e.CourseID = &contentID
			}
			if err := txRepo.Create(e); err != nil {
				return err
			}
		}

		rev := &models.PlatformRevenue{
			BuyerID:     &buyer.ID,
			AmountCents: platformCents,
			Source:      revenueSource,
		}
		if kind == domain.ContentKindQuiz {
			rev.QuizID = &contentID
		} else {
			rev.CourseID = &contentID
		}
		return s.revenues.WithTx(tx).Create(rev)
	})
	if err != nil {
		return nil, err
	}
	if result.Status == StatusPurchased {
		logrus.WithFields(logrus.Fields{
			"kind":           kind,
			"content_id":     contentID,
			"buyer_id":       buyer.ID,
			"owner_id":       ownerID,
			"price_cents":    priceCents,
			"author_cents":   authorCents,
			"platform_cents": platformCents,
		}).Info("purchase settled")
	}
	return result, nil
}

// ApproveQuiz publishes a pending quiz, charging the author the publishing
// fee when the quiz is paid. The fee is absorbed, not redistributed.
func (s *SettlementService) ApproveQuiz(ctx context.Context, quizID uint) error {
	q, err := s.quizzes.GetByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrNotFound
		}
		return err
	}
	if q.Status == domain.QuizStatusPublished {
		return domain.ErrAlreadyProcessed
	}
	var fee int64
	if q.IsPaid {
		fee, err = s.settings.GetInt64(ctx, domain.SettingQuizApprovalAmountCents)
		if err != nil {
			return fmt.Errorf("read quiz approval fee: %w", err)
		}
	}
	// The guarded flip happens first so a failed fee debit rolls the status
	// back, and a concurrent approval losing the guard charges nothing.
	return s.db.Transaction(func(tx *gorm.DB) error {
		flipped, err := s.quizzes.WithTx(tx).Publish(q.ID)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrAlreadyProcessed
		}
		if fee > 0 {
			if err := s.wallets.WithTx(tx).Debit(q.OwnerID, fee); err != nil {
				return err
			}
			now := time.Now()
			if err := s.transactions.WithTx(tx).Create(&models.WalletTransaction{
				TransactionID: "pub-" + uuid.New().String(),
				UserID:        q.OwnerID,
				Type:          domain.TxPublishingFee,
				AmountCents:   fee,
				Status:        domain.TxStatusCompleted,
				CompletedAt:   &now,
				QuizID:        &q.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApproveCourse approves a pending course. The approval fee is charged
// whether the course is paid or free, and recorded as platform revenue with
// no buyer.
func (s *SettlementService) ApproveCourse(ctx context.Context, courseID uint) error {
	c, err := s.courses.GetByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrNotFound
		}
		return err
	}
	if c.Status == domain.CourseStatusApproved {
		return domain.ErrAlreadyProcessed
	}
	fee, err := s.settings.GetInt64(ctx, domain.SettingCourseApprovalFeeCents)
	if err != nil {
		return fmt.Errorf("read course approval fee: %w", err)
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		flipped, err := s.courses.WithTx(tx).Approve(c.ID)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrAlreadyProcessed
		}
		if fee > 0 {
			if err := s.wallets.WithTx(tx).Debit(c.OwnerID, fee); err != nil {
				return err
			}
			now := time.Now()
			if err := s.transactions.WithTx(tx).Create(&models.WalletTransaction{
				TransactionID: "apf-" + uuid.New().String(),
				UserID:        c.OwnerID,
				Type:          domain.TxServiceCharge,
				AmountCents:   fee,
				Status:        domain.TxStatusCompleted,
				CompletedAt:   &now,
				CourseID:      &c.ID,
			}); err != nil {
				return err
			}
		}
		return s.revenues.WithTx(tx).Create(&models.PlatformRevenue{
			CourseID:    &c.ID,
			AmountCents: fee,
			Source:      domain.RevenueCourseApprovalFee,
		})
	})
}

// RejectQuiz marks a non-published quiz rejected. Rejection never touches the
// ledger.
func (s *SettlementService) RejectQuiz(quizID uint, note string) error {
	q, err := s.quizzes.GetByID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrNotFound
		}
		return err
	}
	if q.Status == domain.QuizStatusPublished || q.Status == domain.QuizStatusRejected {
		return domain.ErrAlreadyProcessed
	}
	return s.quizzes.UpdateStatus(q.ID, domain.QuizStatusRejected, note)
}

// RejectCourse marks a pending course rejected. No ledger effect.
func (s *SettlementService) RejectCourse(courseID uint, note string) error {
	c, err := s.courses.GetByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrNotFound
		}
		return err
	}
	if c.Status != domain.CourseStatusPending {
		return domain.ErrAlreadyProcessed
	}
	return s.courses.UpdateStatus(c.ID, domain.CourseStatusRejected, note)
}

// Refund credits a user's wallet from the admin surface, writing a completed
// refund entry.
func (s *SettlementService) Refund(userID uint, amountCents int64, reference string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.wallets.WithTx(tx).Credit(userID, amountCents); err != nil {
			return err
		}
		now := time.Now()
		return s.transactions.WithTx(tx).Create(&models.WalletTransaction{
			TransactionID: "ref-" + uuid.New().String(),
			UserID:        userID,
			Type:          domain.TxRefund,
			AmountCents:   amountCents,
			Status:        domain.TxStatusCompleted,
			CompletedAt:   &now,
			Provider:      "admin",
			GatewayRef:    reference,
		})
	})
}
