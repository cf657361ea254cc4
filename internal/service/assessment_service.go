package service

import (
	"codementor_backend/internal/model"
	"codementor_backend/internal/repository"
	"codementor_backend/pkg/logger"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AssessmentInput 问卷提交内容
type AssessmentInput struct {
	ExperienceLevel string   `json:"experienceLevel"`
	Languages       []string `json:"languages"`
	LearningGoal    string   `json:"learningGoal"`
	GoalDetails     *string  `json:"goalDetails"`
	LearningStyle   string   `json:"learningStyle"`
	TimeCommitment  string   `json:"timeCommitment"`
}

// Guidancer 问卷提交后触发首次生成
type Guidancer interface {
	Generate(ctx context.Context, userID uint, a *model.Assessment) (*model.Guidance, error)
}

type AssessmentService struct {
	store    repository.Gateway
	guidance Guidancer
}

func NewAssessmentService(store repository.Gateway, guidance Guidancer) *AssessmentService {
	return &AssessmentService{store: store, guidance: guidance}
}

// MaxLanguageLength 单个语言名的最大字符数，兜底进度名 "<语言> Basics" 需放进 191 字符的列
const MaxLanguageLength = 100

// Validate 去除首尾空白、语言去重，并按表单顺序检查必填项
func (in *AssessmentInput) Validate() error {
	in.ExperienceLevel = strings.TrimSpace(in.ExperienceLevel)
	in.LearningGoal = strings.TrimSpace(in.LearningGoal)
	in.LearningStyle = strings.TrimSpace(in.LearningStyle)
	in.TimeCommitment = strings.TrimSpace(in.TimeCommitment)

	seen := make(map[string]bool, len(in.Languages))
	languages := make([]string, 0, len(in.Languages))
	for _, l := range in.Languages {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		if utf8.RuneCountInString(l) > MaxLanguageLength {
			return &ValidationError{Field: "languages", Message: fmt.Sprintf("Language names must be at most %d characters", MaxLanguageLength)}
		}
		seen[l] = true
		languages = append(languages, l)
	}
	in.Languages = languages

	if in.GoalDetails != nil {
		details := strings.TrimSpace(*in.GoalDetails)
		if details == "" {
			in.GoalDetails = nil
		} else {
			in.GoalDetails = &details
		}
	}

	switch {
	case in.ExperienceLevel == "":
		return &ValidationError{Field: "experienceLevel", Message: "Please select your experience level"}
	case len(in.Languages) == 0:
		return &ValidationError{Field: "languages", Message: "Please select at least one programming language"}
	case in.LearningGoal == "":
		return &ValidationError{Field: "learningGoal", Message: "Please select your learning goal"}
	case in.LearningStyle == "":
		return &ValidationError{Field: "learningStyle", Message: "Please select your preferred learning style"}
	case in.TimeCommitment == "":
		return &ValidationError{Field: "timeCommitment", Message: "Please select your time commitment"}
	}
	return nil
}

// Submit 保存问卷后尽力生成首份指导，生成失败只记录日志，不影响问卷写入
func (s *AssessmentService) Submit(ctx context.Context, userID uint, in AssessmentInput) (*model.Assessment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a, err := s.store.UpsertAssessment(ctx, &model.Assessment{
		UserID:          userID,
		ExperienceLevel: in.ExperienceLevel,
		Languages:       datatypes.JSONSlice[string](in.Languages),
		LearningGoal:    in.LearningGoal,
		GoalDetails:     in.GoalDetails,
		LearningStyle:   in.LearningStyle,
		TimeCommitment:  in.TimeCommitment,
	})
	if err != nil {
		return nil, storageErr("upsert assessment", err)
	}

	if s.guidance != nil {
		if _, err := s.guidance.Generate(ctx, userID, a); err != nil {
			logger.Log.Error("Assessment saved but initial guidance generation failed",
				zap.Uint("user_id", userID), zap.Error(err))
		}
	}

	return a, nil
}

// Get 没有问卷时返回 (nil, nil)
func (s *AssessmentService) Get(ctx context.Context, userID uint) (*model.Assessment, error) {
	a, err := s.store.GetAssessment(ctx, userID)
	if err != nil {
		return nil, storageErr("get assessment", err)
	}
	return a, nil
}
