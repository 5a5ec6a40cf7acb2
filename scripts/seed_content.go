// 导入内容目录（模块、章节内容、测验）
//
// 模块按文件中的顺序写入，前置模块通过 key 引用，只能引用前面已出现的模块。
// 数据库中已有模块时默认跳过，使用 -force 追加导入。
//
// 用法: go run ./scripts -file scripts/catalog.yaml

package main

import (
	"adaptive_edu_backend/internal/config"
	"adaptive_edu_backend/internal/model"
	"adaptive_edu_backend/internal/repository"
	"adaptive_edu_backend/internal/service"
	"adaptive_edu_backend/pkg/database"
	"adaptive_edu_backend/pkg/logger"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Modules []catalogModule `yaml:"modules"`
}

type catalogModule struct {
	Key                string           `yaml:"key"`
	Title              string           `yaml:"title"`
	Description        string           `yaml:"description"`
	Subject            string           `yaml:"subject"`
	Difficulty         model.Difficulty `yaml:"difficulty"`
	Prerequisites      []string         `yaml:"prerequisites"`
	LearningObjectives []string         `yaml:"learningObjectives"`
	EstimatedDuration  int              `yaml:"estimatedDuration"`
	Contents           []catalogContent `yaml:"contents"`
	Quizzes            []catalogQuiz    `yaml:"quizzes"`
}

type catalogContent struct {
	Type    model.ContentType `yaml:"type"`
	Title   string            `yaml:"title"`
	Content string            `yaml:"content"`
}

type catalogQuiz struct {
	Title        string            `yaml:"title"`
	Description  string            `yaml:"description"`
	Difficulty   model.Difficulty  `yaml:"difficulty"`
	TimeLimit    int               `yaml:"timeLimit"`
	PassingScore int               `yaml:"passingScore"`
	Questions    []catalogQuestion `yaml:"questions"`
}

type catalogQuestion struct {
	ID            string             `yaml:"id"`
	Text          string             `yaml:"text"`
	Type          model.QuestionType `yaml:"type"`
	Options       []string           `yaml:"options"`
	CorrectAnswer []string           `yaml:"correctAnswer"`
	Explanation   string             `yaml:"explanation"`
	Points        int                `yaml:"points"`
	Difficulty    model.Difficulty   `yaml:"difficulty"`
}

func loadCatalog(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validateCatalog(&catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// validateCatalog key 唯一，前置模块只能引用前面的模块
func validateCatalog(catalog *catalogFile) error {
	seen := make(map[string]bool, len(catalog.Modules))
	for i, m := range catalog.Modules {
		if m.Key == "" {
			return fmt.Errorf("module #%d: key is required", i+1)
		}
		if seen[m.Key] {
			return fmt.Errorf("module %q: duplicate key", m.Key)
		}
		if !m.Difficulty.Valid() {
			return fmt.Errorf("module %q: invalid difficulty %q", m.Key, m.Difficulty)
		}
		for _, p := range m.Prerequisites {
			if !seen[p] {
				return fmt.Errorf("module %q: prerequisite %q must be declared earlier", m.Key, p)
			}
		}
		seen[m.Key] = true
	}
	return nil
}

func (m catalogModule) toModel(ids map[string]uint) *model.LearningModule {
	prerequisites := make([]uint, 0, len(m.Prerequisites))
	for _, key := range m.Prerequisites {
		prerequisites = append(prerequisites, ids[key])
	}

	module := &model.LearningModule{
		Title:              m.Title,
		Description:        m.Description,
		Subject:            m.Subject,
		Difficulty:         m.Difficulty,
		Prerequisites:      prerequisites,
		LearningObjectives: m.LearningObjectives,
		EstimatedDuration:  m.EstimatedDuration,
	}
	for i, c := range m.Contents {
		module.Contents = append(module.Contents, model.ModuleContent{
			Type:  c.Type,
			Title: c.Title,
			Body:  c.Content,
			Order: i + 1,
		})
	}
	return module
}

func (q catalogQuiz) toModel(moduleID uint) *model.Quiz {
	quiz := &model.Quiz{
		Title:        q.Title,
		Description:  q.Description,
		ModuleID:     moduleID,
		Difficulty:   q.Difficulty,
		TimeLimit:    q.TimeLimit,
		PassingScore: q.PassingScore,
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = model.PassingPercentage
	}
	for _, question := range q.Questions {
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			ID:            question.ID,
			Text:          question.Text,
			Type:          question.Type,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			Explanation:   question.Explanation,
			Points:        question.Points,
			Difficulty:    question.Difficulty,
		})
	}
	return quiz
}

func seed(ctx context.Context, content *service.ContentService, catalog *catalogFile) (modules, quizzes int, err error) {
	ids := make(map[string]uint, len(catalog.Modules))
	for _, m := range catalog.Modules {
		module := m.toModel(ids)
		if err := content.CreateModule(ctx, module); err != nil {
			return modules, quizzes, fmt.Errorf("module %q: %w", m.Key, err)
		}
		ids[m.Key] = module.ID
		modules++

		for _, q := range m.Quizzes {
			if err := content.CreateQuiz(ctx, q.toModel(module.ID)); err != nil {
				return modules, quizzes, fmt.Errorf("quiz %q of module %q: %w", q.Title, m.Key, err)
			}
			quizzes++
		}
	}
	return modules, quizzes, nil
}

func main() {
	file := flag.String("file", "scripts/catalog.yaml", "内容目录文件")
	configPath := flag.String("config", "configs", "配置文件目录")
	force := flag.Bool("force", false, "数据库中已有模块时仍然导入")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	catalog, err := loadCatalog(*file)
	if err != nil {
		logger.Log.Fatal("内容目录无效", zap.String("file", *file), zap.Error(err))
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("数据库迁移失败", zap.Error(err))
	}

	moduleRepo := repository.NewModuleRepository(db)
	ctx := context.Background()

	existing, err := moduleRepo.CountAll(ctx)
	if err != nil {
		logger.Log.Fatal("统计模块失败", zap.Error(err))
	}
	if existing > 0 && !*force {
		logger.Log.Info("已有内容，跳过导入", zap.Int64("modules", existing))
		return
	}

	content := service.NewContentService(moduleRepo, repository.NewQuizRepository(db))
	modules, quizzes, err := seed(ctx, content, catalog)
	if err != nil {
		logger.Log.Fatal("导入失败", zap.Int("modules", modules), zap.Int("quizzes", quizzes), zap.Error(err))
	}
	logger.Log.Info("导入完成", zap.Int("modules", modules), zap.Int("quizzes", quizzes))
}
