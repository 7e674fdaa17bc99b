package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"vidtube/internal/api/dto"
	infraES "vidtube/internal/infra/elasticsearch"
	"vidtube/internal/repository"
	"vidtube/pkg/logger"

	"go.uber.org/zap"
)

type SearchService struct {
	videoRepo *repository.VideoRepository
}

func NewSearchService(videoRepo *repository.VideoRepository) *SearchService {
	return &SearchService{videoRepo: videoRepo}
}

// SearchVideos 视频搜索：优先走 ES，ES 不可用或查询失败时降级到数据库
func (s *SearchService) SearchVideos(ctx context.Context, req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	if infraES.Get() != nil {
		data, err := s.searchByES(ctx, req)
		if err == nil {
			return data, nil
		}
		logger.Warn("ES search failed, falling back to database",
			zap.String("keyword", req.Keyword), zap.Error(err))
	}
	return s.searchByDB(req)
}

type esSearchResult struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string              `json:"_id"`
			Source    infraES.VideoDoc    `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *SearchService) searchByES(ctx context.Context, req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	from := (req.Page - 1) * req.PageSize

	query := map[string]interface{}{
		"from": from,
		"size": req.PageSize,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  req.Keyword,
						"fields": []string{"title^3", "description", "owner_name"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"is_published": true},
				},
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title":       map[string]interface{}{},
				"description": map[string]interface{}{},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	resp, err := infraES.Search(ctx, infraES.VideosIndexName(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("es search failed: %s", resp.String())
	}

	var result esSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(result.Hits.Hits))
	highlights := make(map[int64]map[string][]string, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		if len(hit.Highlight) > 0 {
			highlights[id] = hit.Highlight
		}
	}

	// 回表获取权威数据（ES 文档允许滞后）
	videos, err := s.videoRepo.GetByIDsWithOwner(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]int, len(videos))
	for i := range videos {
		byID[videos[i].ID] = i
	}

	items := make([]dto.SearchVideoItem, 0, len(ids))
	for _, id := range ids {
		idx, ok := byID[id]
		if !ok || !videos[idx].IsPublished {
			continue
		}
		items = append(items, dto.SearchVideoItem{
			VideoInfo:  toVideoInfo(&videos[idx]),
			Highlights: highlights[id],
		})
	}

	return &dto.SearchVideoData{
		Items:      items,
		Total:      result.Hits.Total.Value,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(result.Hits.Total.Value, req.PageSize),
		Source:     "es",
	}, nil
}

func (s *SearchService) searchByDB(req *dto.SearchVideoRequest) (*dto.SearchVideoData, error) {
	params := repository.VideoListParams{
		Skip:          (req.Page - 1) * req.PageSize,
		Limit:         req.PageSize,
		OnlyPublished: true,
		Query:         req.Keyword,
		SortBy:        "created_at",
		WithOwner:     true,
	}

	videos, total, err := s.videoRepo.List(params)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SearchVideoItem, 0, len(videos))
	for i := range videos {
		items = append(items, dto.SearchVideoItem{VideoInfo: toVideoInfo(&videos[i])})
	}

	return &dto.SearchVideoData{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages(total, req.PageSize),
		Source:     "db",
	}, nil
}
