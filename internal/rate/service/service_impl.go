package service

import (
	"context"
	"strings"

	"github.com/hengly4433/hotel-system/internal/config"
	ratedomain "github.com/hengly4433/hotel-system/internal/rate/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Repo   ratedomain.Repository
	Policy *config.PolicyHolder `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	repo   ratedomain.Repository
	policy *config.PolicyHolder
}

func NewService(p Params) ratedomain.Lookup {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("rate.lookup"),
		repo:   p.Repo,
		policy: p.Policy,
	}
}

func (s *Service) Resolve(ctx context.Context, req ratedomain.ResolveRequest) (map[civildate.Date]ratedomain.NightlyRate, error) {
	return s.ResolveTx(ctx, s.db, req)
}

func (s *Service) ResolveTx(ctx context.Context, tx *gorm.DB, req ratedomain.ResolveRequest) (map[civildate.Date]ratedomain.NightlyRate, error) {
	if len(req.Overrides) > 0 {
		return s.fromOverrides(req.Overrides), nil
	}

	prices, err := s.repo.ListPrices(ctx, tx, req.RatePlanID, req.RoomTypeID, req.Stay)
	if err != nil {
		return nil, err
	}

	out := make(map[civildate.Date]ratedomain.NightlyRate, len(prices))
	for _, p := range prices {
		out[p.StayDate] = ratedomain.NightlyRate{
			Date:     p.StayDate,
			Price:    p.Price,
			Currency: p.Currency,
		}
	}
	return out, nil
}

func (s *Service) fromOverrides(overrides []ratedomain.NightlyRate) map[civildate.Date]ratedomain.NightlyRate {
	currency := s.policy.Get().DefaultCurrency

	out := make(map[civildate.Date]ratedomain.NightlyRate, len(overrides))
	for _, o := range overrides {
		if o.Date.IsZero() {
			continue
		}
		c := strings.ToUpper(strings.TrimSpace(o.Currency))
		if c == "" {
			c = currency
		}
		out[o.Date] = ratedomain.NightlyRate{Date: o.Date, Price: o.Price, Currency: c}
	}
	return out
}
