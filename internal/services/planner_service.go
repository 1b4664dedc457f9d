package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"lotus/internal/itinerary"
	dbm "lotus/internal/models/db_models"
	"lotus/internal/models/response_models"
	"lotus/internal/repositories"
	"lotus/pkg/utils"
)

const maxPromptLen = 2000

// PlannerSystemPrompt fixes the JSON schema the model must answer with.
// Locations must be fully qualified so a geocoder can resolve them.
const PlannerSystemPrompt = `你是一名专业的中国旅行规划师。请根据用户的需求直接输出完整行程，只返回一个 JSON 对象，不要输出任何解释、标题或 Markdown。JSON 结构如下：

{
  "title": "行程标题",
  "destination": "目的地城市",
  "startDate": "YYYY-MM-DD",
  "endDate": "YYYY-MM-DD",
  "departureLocation": "出发城市",
  "partySize": 出行人数（数字）,
  "budgetTotal": 总预算（数字）,
  "budgetCurrency": "CNY",
  "notes": "整体说明",
  "days": [
    {
      "dayIndex": 1,
      "date": "YYYY-MM-DD",
      "summary": "当天概要",
      "activities": [
        {
          "title": "活动名称",
          "location": "省+市+区+地点名称",
          "startTime": "HH:MM",
          "endTime": "HH:MM",
          "category": "transportation/accommodation/dining/sightseeing/shopping/other",
          "estimatedCost": 预估费用（数字）,
          "notes": "备注"
        }
      ]
    }
  ]
}

规则：
1. 必须是合法 JSON，字段名与上面完全一致。
2. 每一个 location 都必须写成“省+市+区+地点名称”的完整形式，例如“浙江省杭州市西湖区西湖风景名胜区”。
3. 每天安排 4 到 6 个活动，包含交通、餐饮和住宿建议，并给出门票或消费的预估费用。
4. 用户没有给出日期时 startDate、endDate 和 date 留空字符串。
5. 使用简体中文。`

type PlanInput struct {
	Prompt string
	TripID *uuid.UUID
	UserID *uuid.UUID
}

type PlannerServiceInterface interface {
	Plan(ctx context.Context, in PlanInput) (*response_models.PlanItineraryResponse, error)
}

type PlannerService struct {
	llm       utils.CompletionClient
	pipeline  itinerary.Pipeline
	persister ItineraryPersisterInterface
	tripRepo  repositories.TripRepository
	logger    *zap.Logger
}

func NewPlannerService(
	llm utils.CompletionClient,
	pipeline itinerary.Pipeline,
	persister ItineraryPersisterInterface,
	tripRepo repositories.TripRepository,
	logger *zap.Logger,
) PlannerServiceInterface {
	return &PlannerService{
		llm:       llm,
		pipeline:  pipeline,
		persister: persister,
		tripRepo:  tripRepo,
		logger:    logger,
	}
}

// Plan asks the model for an itinerary and stores the result for the
// caller. Model and parse failures are reported through ParseError with a
// fallback itinerary; only bad input and ownership violations are returned
// as errors.
func (s *PlannerService) Plan(ctx context.Context, in PlanInput) (*response_models.PlanItineraryResponse, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", utils.ErrInvalidInput)
	}
	if len([]rune(prompt)) > maxPromptLen {
		return nil, fmt.Errorf("%w: prompt exceeds %d characters", utils.ErrInvalidInput, maxPromptLen)
	}

	if in.TripID != nil {
		// regeneration must reach the model even for an unchanged prompt
		ctx = utils.WithoutCache(ctx)
	}

	var outcome itinerary.Outcome
	completion, err := s.llm.Complete(ctx, PlannerSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("model call failed, using fallback itinerary", zap.Error(err))
		outcome = s.pipeline.FromPrompt(prompt, fmt.Sprintf("model call failed: %v", err))
	} else {
		outcome = s.pipeline.Run(completion.Content, prompt)
		if outcome.Fallback {
			s.logger.Info("model output unusable, using fallback itinerary", zap.String("reason", outcome.ParseError))
		} else if outcome.RepairStage != itinerary.StageStrict {
			s.logger.Info("model output repaired", zap.String("stage", string(outcome.RepairStage)))
		}
	}

	var problems []string
	if outcome.ParseError != "" {
		problems = append(problems, outcome.ParseError)
	}

	resp := &response_models.PlanItineraryResponse{
		RawContent: completion.Content,
		Raw:        completion.Raw,
		Fallback:   outcome.Fallback,
		Itinerary:  outcome.Itinerary,
	}

	if in.UserID == nil {
		problems = append(problems, "no user identity; itinerary was not saved")
		resp.ParseError = joinProblems(problems)
		return resp, nil
	}

	tripID, err := s.persister.Persist(ctx, outcome.Itinerary, *in.UserID, in.TripID)
	if err != nil {
		s.logger.Error("failed to persist itinerary", zap.String("user_id", in.UserID.String()), zap.Error(err))
		problems = append(problems, fmt.Sprintf("failed to save itinerary: %v", err))
	}
	resp.TripID = tripID
	resp.ParseError = joinProblems(problems)

	s.saveTranscript(ctx, *in.UserID, tripID, prompt, completion, resp.ParseError)

	if errors.Is(err, utils.ErrForbidden) {
		return nil, err
	}
	return resp, nil
}

func (s *PlannerService) saveTranscript(ctx context.Context, userID uuid.UUID, tripID *uuid.UUID, prompt string, completion utils.Completion, parseError *string) {
	var raw datatypes.JSON
	if completion.Raw != nil {
		b, err := json.Marshal(completion.Raw)
		if err != nil {
			s.logger.Warn("failed to encode raw completion", zap.Error(err))
		} else {
			raw = b
		}
	}

	transcript := &dbm.ItineraryTranscript{
		TripID:     tripID,
		UserID:     userID,
		Prompt:     prompt,
		Content:    completion.Content,
		Raw:        raw,
		ParseError: parseError,
	}
	if err := s.tripRepo.CreateTranscript(ctx, transcript); err != nil {
		s.logger.Error("failed to save itinerary transcript", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func joinProblems(problems []string) *string {
	if len(problems) == 0 {
		return nil
	}
	s := strings.Join(problems, "; ")
	return &s
}
