package repository

import (
	"context"
	"time"

	"github.com/jobdeck/jobdeck/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type IndustryRepo interface {
	CreateIndustry(ctx context.Context, in *models.Industry) (int64, error)
	GetIndustryByID(ctx context.Context, id int64) (*models.Industry, error)
	GetIndustryByCode(ctx context.Context, code string) (*models.Industry, error)
	ListIndustries(ctx context.Context, activeOnly bool) ([]models.Industry, error)
	UpdateIndustry(ctx context.Context, in *models.Industry) error
	DeactivateIndustry(ctx context.Context, id int64) error
}

type TagRepo interface {
	CreateTag(ctx context.Context, t *models.Tag) (int64, error)
	GetTagByID(ctx context.Context, id int64) (*models.Tag, error)
	GetTagByCode(ctx context.Context, code string) (*models.Tag, error)
	ListTags(ctx context.Context, activeOnly bool) ([]models.Tag, error)
	UpdateTag(ctx context.Context, t *models.Tag) error
	DeactivateTag(ctx context.Context, id int64) error
}

type PostingRepo interface {
	CreatePosting(ctx context.Context, p *models.Posting) (int64, error)
	GetPostingByID(ctx context.Context, id int64) (*models.Posting, error)
	ListPostings(ctx context.Context, status string, limit, offset int) ([]models.Posting, error)
	UpdatePosting(ctx context.Context, p *models.Posting) error
	DeletePosting(ctx context.Context, id int64) error
	SetPostingTags(ctx context.Context, postingID int64, tagIDs []int64) error
	ExpirePostingsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type CartRepo interface {
	AddCartItem(ctx context.Context, userID, jobID int64) error
	RemoveCartItem(ctx context.Context, userID, jobID int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) error
	ListCartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	CountCartItems(ctx context.Context, userID int64) (int64, error)
}

type ResumeRepo interface {
	CreateResume(ctx context.Context, r *models.Resume) error
	GetResumeByID(ctx context.Context, id string) (*models.Resume, error)
	ListResumes(ctx context.Context, userID int64) ([]models.Resume, error)
	SaveResumeParse(ctx context.Context, p *models.ResumeParse) (int64, error)
	LatestResumeParse(ctx context.Context, resumeID string) (*models.ResumeParse, error)
}

type MatchRepo interface {
	SaveMatchResult(ctx context.Context, m *models.MatchResult) (int64, error)
	ListMatchResults(ctx context.Context, resumeID string) ([]models.MatchResult, error)
}

type DeliveryRepo interface {
	CreateBatch(ctx context.Context, b *models.DeliveryBatch, jobIDs []int64) ([]models.Delivery, error)
	GetDeliveryByID(ctx context.Context, id int64) (*models.Delivery, error)
	ListDeliveries(ctx context.Context, userID int64, status string, limit, offset int) ([]models.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, id int64, status string, at time.Time) error
	ListDeliveriesByBatch(ctx context.Context, batchID string) ([]models.Delivery, error)
}
