package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/pkg/logger"
	"adaptive_edu_backend/pkg/monitoring"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	verbCompleted = "http://adlnet.gov/expapi/verbs/completed"
	verbPassed    = "http://adlnet.gov/expapi/verbs/passed"
	verbFailed    = "http://adlnet.gov/expapi/verbs/failed"

	activityTypeModule     = "http://adlnet.gov/expapi/activities/module"
	activityTypeAssessment = "http://adlnet.gov/expapi/activities/assessment"

	extensionBase = "http://adaptive-edu/xapi/extensions/"
)

type XAPIStatement struct {
	ID        string       `json:"id"`
	Actor     XAPIActor    `json:"actor"`
	Verb      XAPIVerb     `json:"verb"`
	Object    XAPIObject   `json:"object"`
	Result    *XAPIResult  `json:"result,omitempty"`
	Context   *XAPIContext `json:"context,omitempty"`
	Timestamp string       `json:"timestamp"`
}

type XAPIActor struct {
	ObjectType string `json:"objectType"`
	Name       string `json:"name"`
	Mbox       string `json:"mbox"`
}

type XAPIVerb struct {
	ID      string            `json:"id"`
	Display map[string]string `json:"display"`
}

type XAPIObject struct {
	ObjectType string                 `json:"objectType"`
	ID         string                 `json:"id"`
	Definition XAPIActivityDefinition `json:"definition"`
}

type XAPIActivityDefinition struct {
	Name        map[string]string `json:"name"`
	Description map[string]string `json:"description,omitempty"`
	Type        string            `json:"type"`
}

type XAPIScore struct {
	Raw    float64 `json:"raw"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Scaled float64 `json:"scaled"`
}

type XAPIResult struct {
	Score      *XAPIScore `json:"score,omitempty"`
	Success    *bool      `json:"success,omitempty"`
	Completion bool       `json:"completion"`
	Duration   string     `json:"duration,omitempty"`
}

type XAPIContext struct {
	ContextActivities map[string][]map[string]string `json:"contextActivities,omitempty"`
	Extensions        map[string]interface{}         `json:"extensions,omitempty"`
}

type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// XAPIService 将完成记录上报到 Learning Record Store，连续失败后熔断
type XAPIService struct {
	Cfg     config.XAPIConfig
	Users   UserLookup
	Modules ModuleLookup
	Client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func NewXAPIService(cfg config.XAPIConfig, users UserLookup, modules ModuleLookup) *XAPIService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        "xapi-lrs",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("xAPI circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &XAPIService{
		Cfg:     cfg,
		Users:   users,
		Modules: modules,
		Client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (s *XAPIService) ReportCompletion(ctx context.Context, record model.Progress) error {
	user, err := s.Users.FindByID(ctx, record.UserID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", record.UserID, err)
	}

	var module *model.LearningModule
	if record.ModuleID != nil && s.Modules != nil {
		module, err = s.Modules.FindByID(ctx, *record.ModuleID)
		if err != nil {
			logger.Log.Debug("Module lookup failed for xAPI statement", zap.Uint("moduleID", *record.ModuleID), zap.Error(err))
			module = nil
		}
	}

	statement := BuildXAPIStatement(s.Cfg.ActivityBaseURL, user, module, record)

	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.send(ctx, statement)
	})
	if err != nil {
		monitoring.XAPIStatements.WithLabelValues("failed").Inc()
		return err
	}
	monitoring.XAPIStatements.WithLabelValues("sent").Inc()
	return nil
}

func (s *XAPIService) send(ctx context.Context, statement XAPIStatement) error {
	body, err := json.Marshal(statement)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Experience-API-Version", s.Cfg.Version)
	if s.Cfg.Username != "" {
		req.SetBasicAuth(s.Cfg.Username, s.Cfg.Password)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lrs responded %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// BuildXAPIStatement 模块完成记为 completed，测验按及格线记为 passed/failed
func BuildXAPIStatement(activityBase string, user *model.User, module *model.LearningModule, record model.Progress) XAPIStatement {
	activityBase = strings.TrimRight(activityBase, "/")

	verbID, verbName := verbCompleted, "completed"
	objectID := fmt.Sprintf("%s/progress/%d", activityBase, record.ID)
	objectType := activityTypeModule
	name := "Learning activity"
	description := ""

	if module != nil {
		objectID = fmt.Sprintf("%s/modules/%d", activityBase, module.ID)
		name = module.Title
		description = module.Description
	}

	var success *bool
	if record.QuizID != nil {
		objectID = fmt.Sprintf("%s/quizzes/%d", activityBase, *record.QuizID)
		objectType = activityTypeAssessment
		passed := record.IsPassed()
		success = &passed
		if passed {
			verbID, verbName = verbPassed, "passed"
		} else {
			verbID, verbName = verbFailed, "failed"
		}
	}

	definition := XAPIActivityDefinition{
		Name: map[string]string{"en-US": name},
		Type: objectType,
	}
	if description != "" {
		definition.Description = map[string]string{"en-US": description}
	}

	result := &XAPIResult{
		Success:    success,
		Completion: true,
		Duration:   isoDuration(record.TimeSpent),
	}
	if record.MaxScore > 0 {
		result.Score = &XAPIScore{
			Raw:    record.Score,
			Min:    0,
			Max:    record.MaxScore,
			Scaled: record.Score / record.MaxScore,
		}
	}

	xctx := &XAPIContext{
		Extensions: map[string]interface{}{
			extensionBase + "difficulty":      record.AdaptiveData.DifficultyLevel,
			extensionBase + "masteryLevel":    record.AdaptiveData.MasteryLevel,
			extensionBase + "confidenceScore": record.AdaptiveData.ConfidenceScore,
		},
	}
	if record.QuizID != nil && module != nil {
		xctx.ContextActivities = map[string][]map[string]string{
			"parent": {{"id": fmt.Sprintf("%s/modules/%d", activityBase, module.ID)}},
		}
	}

	completedAt := record.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	return XAPIStatement{
		ID: uuid.NewString(),
		Actor: XAPIActor{
			ObjectType: "Agent",
			Name:       user.FullName(),
			Mbox:       "mailto:" + user.Email,
		},
		Verb: XAPIVerb{
			ID:      verbID,
			Display: map[string]string{"en-US": verbName},
		},
		Object: XAPIObject{
			ObjectType: "Activity",
			ID:         objectID,
			Definition: definition,
		},
		Result:    result,
		Context:   xctx,
		Timestamp: completedAt.UTC().Format(time.RFC3339),
	}
}

// isoDuration 秒数转 ISO 8601 时长，例如 125 -> PT2M5S
func isoDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("PT%dM%dS", seconds/60, seconds%60)
}
