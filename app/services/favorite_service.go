package services

import (
	"context"
	"encoding/json"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"go.uber.org/zap"
)

type FavoriteIDsInput struct {
	PerfumeIDs json.RawMessage `json:"perfume_ids"`
}

type FavoriteError struct {
	PerfumeID uint   `json:"perfume_id"`
	Error     string `json:"error"`
}

type FavoriteAddResult struct {
	Added              []uint          `json:"added"`
	AlreadyInFavorites []uint          `json:"already_in_favorites"`
	Errors             []FavoriteError `json:"errors"`
}

type FavoriteService struct {
	favoriteRepo repositories.FavoriteRepository
	perfumeRepo  repositories.PerfumeRepository
	logger       *zap.Logger
}

func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, perfumeRepo repositories.PerfumeRepository, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, perfumeRepo: perfumeRepo, logger: logger.Named("favorites")}
}

func parsePerfumeIDs(in FavoriteIDsInput) ([]uint, error) {
	var raws []json.RawMessage
	if helpers.IsNull(in.PerfumeIDs) || json.Unmarshal(in.PerfumeIDs, &raws) != nil || len(raws) == 0 {
		return nil, apperror.Validation("perfume_ids array required")
	}
	ids := make([]uint, 0, len(raws))
	for _, raw := range raws {
		id, err := helpers.ParseJSONInt(raw)
		if err != nil || id <= 0 {
			return nil, apperror.Validation("All perfume_ids must be integers")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (s *FavoriteService) Add(ctx context.Context, claims *token.Claims, in FavoriteIDsInput) (*FavoriteAddResult, error) {
	ids, err := parsePerfumeIDs(in)
	if err != nil {
		return nil, err
	}

	result := &FavoriteAddResult{Added: []uint{}, AlreadyInFavorites: []uint{}, Errors: []FavoriteError{}}
	for _, id := range ids {
		perfume, err := s.perfumeRepo.FindAvailableByID(ctx, id)
		if err != nil {
			return nil, s.dbError("Add", claims, err)
		}
		if perfume == nil {
			result.Errors = append(result.Errors, FavoriteError{PerfumeID: id, Error: "Not found"})
			continue
		}
		inserted, err := s.favoriteRepo.Add(ctx, claims.UserID, id)
		if err != nil {
			return nil, s.dbError("Add", claims, err)
		}
		if inserted {
			result.Added = append(result.Added, id)
		} else {
			result.AlreadyInFavorites = append(result.AlreadyInFavorites, id)
		}
	}
	return result, nil
}

func (s *FavoriteService) List(ctx context.Context, claims *token.Claims) ([]repositories.FavoriteLine, error) {
	lines, err := s.favoriteRepo.ListLines(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("List: failed to load favorites", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, apperror.Internal("Failed to load favorites", err)
	}
	return lines, nil
}

// Remove returns the ids that were actually in the user's favorites.
func (s *FavoriteService) Remove(ctx context.Context, claims *token.Claims, in FavoriteIDsInput) ([]uint, error) {
	ids, err := parsePerfumeIDs(in)
	if err != nil {
		return nil, err
	}
	present, err := s.favoriteRepo.FindPerfumeIDs(ctx, claims.UserID, ids)
	if err != nil {
		return nil, s.dbError("Remove", claims, err)
	}
	if len(present) == 0 {
		return []uint{}, nil
	}
	if _, err := s.favoriteRepo.Remove(ctx, claims.UserID, present); err != nil {
		return nil, s.dbError("Remove", claims, err)
	}
	return present, nil
}

func (s *FavoriteService) dbError(op string, claims *token.Claims, err error) error {
	s.logger.Error(op+": favorites query failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
	return apperror.Internal("DB error", err)
}
