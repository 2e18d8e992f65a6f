package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"LeafPanel/internal/cache"
	"LeafPanel/internal/model/dto"
	"LeafPanel/pkg/leaflow"
	"LeafPanel/pkg/logger"
)

var (
	invitationService *InvitationService
	invitationOnce    sync.Once
)

func Invitation() *InvitationService {
	invitationOnce.Do(func() {
		invitationService = &InvitationService{}
	})
	return invitationService
}

type InvitationService struct{}

// List 账号的邀请码列表，优先读缓存，refresh=true 强制回源
func (s *InvitationService) List(ctx context.Context, accountID int64, refresh bool) (*dto.InvitationListResponse, error) {
	account, err := Account().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !refresh {
		cached, err := cache.GetInvitationList(ctx, accountID)
		if err != nil {
			logger.Logger.Warn("invitation cache read failed", zap.Int64("account_id", accountID), zap.Error(err))
		}
		if cached != nil {
			return toInvitationResponse(cached, true), nil
		}
	}

	creds, err := Account().Credentials(account)
	if err != nil {
		return nil, err
	}

	list, err := leaflow.GetClient().GetInvitationCodes(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("fetch invitation codes for account %d: %w", accountID, err)
	}

	if err := cache.SetInvitationList(ctx, accountID, list); err != nil {
		logger.Logger.Warn("invitation cache write failed", zap.Int64("account_id", accountID), zap.Error(err))
	}

	return toInvitationResponse(list, false), nil
}

// Create 创建邀请码并失效列表缓存
func (s *InvitationService) Create(ctx context.Context, accountID int64, req dto.CreateInvitationRequest) (*dto.InvitationCodeView, error) {
	account, err := Account().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	creds, err := Account().Credentials(account)
	if err != nil {
		return nil, err
	}

	maxUses := req.MaxUses
	if maxUses <= 0 {
		maxUses = 1
	}

	code, err := leaflow.GetClient().CreateInvitationCode(ctx, creds, maxUses, req.Note)
	if err != nil {
		return nil, fmt.Errorf("create invitation code for account %d: %w", accountID, err)
	}

	if err := cache.InvalidateInvitationList(ctx, accountID); err != nil {
		logger.Logger.Warn("invitation cache invalidate failed", zap.Int64("account_id", accountID), zap.Error(err))
	}

	view := toInvitationCodeView(*code)
	return &view, nil
}

func toInvitationCodeView(c leaflow.InvitationCode) dto.InvitationCodeView {
	return dto.InvitationCodeView{
		ID:          c.RemoteID,
		Code:        c.Code,
		MaxUses:     c.MaxUses,
		UsedCount:   c.UsedCount,
		IsActive:    c.IsActive,
		IsAvailable: c.IsAvailable(),
		Note:        c.Note,
		CreatedAt:   c.CreatedAt,
	}
}

func toInvitationResponse(list *leaflow.InvitationList, cached bool) *dto.InvitationListResponse {
	codes := make([]dto.InvitationCodeView, 0, len(list.Codes))
	for _, c := range list.Codes {
		codes = append(codes, toInvitationCodeView(c))
	}

	return &dto.InvitationListResponse{
		Codes:  codes,
		Cached: cached,
		Stats: dto.InvitationStatsView{
			Total:     list.Stats.Total,
			Active:    list.Stats.Active,
			Available: list.Stats.Available,
			TotalUses: list.Stats.TotalUses,
		},
	}
}
