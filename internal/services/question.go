package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/wedsite-backend/internal/data/repos"
	types "github.com/yungbote/wedsite-backend/internal/domain"
	"github.com/yungbote/wedsite-backend/internal/domain/rsvp"
	"github.com/yungbote/wedsite-backend/internal/pkg/dbctx"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/pkg/normalize"
)

type QuestionInput struct {
	EventID  *uuid.UUID
	Kind     string
	Prompt   string
	Options  []string
	Required bool
}

type QuestionPatch struct {
	EventID    *uuid.UUID
	ClearEvent bool
	Kind       *string
	Prompt     *string
	Options    *[]string
	Required   *bool
}

type QuestionService interface {
	Create(ctx context.Context, weddingID uuid.UUID, in QuestionInput) (*types.Question, error)
	List(ctx context.Context, weddingID uuid.UUID) ([]*types.Question, error)
	Update(ctx context.Context, weddingID, questionID uuid.UUID, patch QuestionPatch) (*types.Question, error)
	Delete(ctx context.Context, weddingID, questionID uuid.UUID) error
	// Reorder rewrites positions 0..n-1 in the given order; ids must be exactly the wedding's questions.
	Reorder(ctx context.Context, weddingID uuid.UUID, ids []uuid.UUID) ([]*types.Question, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
	eventRepo    repos.EventRepo
}

func NewQuestionService(db *gorm.DB, log *logger.Logger, questionRepo repos.QuestionRepo, answerRepo repos.AnswerRepo, eventRepo repos.EventRepo) QuestionService {
	return &questionService{
		db:           db,
		log:          log.With("service", "QuestionService"),
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		eventRepo:    eventRepo,
	}
}

func (qs *questionService) Create(ctx context.Context, weddingID uuid.UUID, in QuestionInput) (*types.Question, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	prompt := normalize.Text(in.Prompt)
	if prompt == "" {
		return nil, invalidArgf("prompt is required")
	}
	options, err := cleanOptions(kind, in.Options)
	if err != nil {
		return nil, err
	}

	q := &types.Question{
		WeddingID: weddingID,
		EventID:   in.EventID,
		Kind:      kind,
		Prompt:    prompt,
		Options:   options,
		Required:  in.Required,
	}
	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := qs.requireEvent(inner, weddingID, in.EventID); err != nil {
			return err
		}
		pos, err := qs.questionRepo.NextPosition(inner, weddingID)
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}
		q.Position = pos
		if _, err := qs.questionRepo.Create(inner, []*types.Question{q}); err != nil {
			return fmt.Errorf("create question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (qs *questionService) List(ctx context.Context, weddingID uuid.UUID) ([]*types.Question, error) {
	out, err := qs.questionRepo.ListByWeddingID(dbctx.Context{Ctx: ctx}, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

func (qs *questionService) Update(ctx context.Context, weddingID, questionID uuid.UUID, patch QuestionPatch) (*types.Question, error) {
	var updated *types.Question
	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := qs.load(inner, weddingID, questionID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if patch.Prompt != nil {
			prompt := normalize.Text(*patch.Prompt)
			if prompt == "" {
				return invalidArgf("prompt cannot be empty")
			}
			updates["prompt"] = prompt
		}
		if patch.Required != nil {
			updates["required"] = *patch.Required
		}
		if patch.ClearEvent {
			updates["event_id"] = nil
		} else if patch.EventID != nil {
			if err := qs.requireEvent(inner, weddingID, patch.EventID); err != nil {
				return err
			}
			updates["event_id"] = *patch.EventID
		}

		kind := current.Kind
		if patch.Kind != nil {
			kind = strings.ToLower(strings.TrimSpace(*patch.Kind))
		}
		if patch.Kind != nil || patch.Options != nil {
			raw := current.OptionList()
			if patch.Options != nil {
				raw = *patch.Options
			} else if !rsvp.IsChoiceKind(kind) {
				raw = nil
			}
			options, err := cleanOptions(kind, raw)
			if err != nil {
				return err
			}
			updates["kind"] = kind
			updates["options"] = options
		}
		if kind != current.Kind {
			// stored values were encoded for the old kind
			if err := qs.answerRepo.DeleteByQuestionIDs(inner, []uuid.UUID{questionID}); err != nil {
				return fmt.Errorf("drop answers: %w", err)
			}
		}
		if len(updates) > 0 {
			if err := qs.questionRepo.Update(inner, questionID, updates); err != nil {
				return fmt.Errorf("update question: %w", err)
			}
		}
		updated, err = qs.load(inner, weddingID, questionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (qs *questionService) Delete(ctx context.Context, weddingID, questionID uuid.UUID) error {
	return qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := qs.load(inner, weddingID, questionID); err != nil {
			return err
		}
		if err := qs.answerRepo.DeleteByQuestionIDs(inner, []uuid.UUID{questionID}); err != nil {
			return fmt.Errorf("delete answers: %w", err)
		}
		if err := qs.questionRepo.DeleteByIDs(inner, []uuid.UUID{questionID}); err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		return nil
	})
}

func (qs *questionService) Reorder(ctx context.Context, weddingID uuid.UUID, ids []uuid.UUID) ([]*types.Question, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalidArgf("question %s listed twice", id)
		}
		seen[id] = true
	}

	var out []*types.Question
	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := qs.questionRepo.ListByWeddingID(inner, weddingID)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		if len(existing) != len(ids) {
			return invalidArgf("expected %d question ids, got %d", len(existing), len(ids))
		}
		for _, q := range existing {
			if !seen[q.ID] {
				return invalidArgf("question %s missing from order", q.ID)
			}
		}
		for pos, id := range ids {
			if err := qs.questionRepo.SetPosition(inner, id, pos); err != nil {
				return fmt.Errorf("set position: %w", err)
			}
		}
		out, err = qs.questionRepo.ListByWeddingID(inner, weddingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (qs *questionService) requireEvent(dbc dbctx.Context, weddingID uuid.UUID, eventID *uuid.UUID) error {
	if eventID == nil {
		return nil
	}
	rows, err := qs.eventRepo.GetByIDs(dbc, weddingID, []uuid.UUID{*eventID})
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}
	if len(rows) == 0 {
		return invalidArgf("event %s does not belong to this wedding", *eventID)
	}
	return nil
}

func (qs *questionService) load(dbc dbctx.Context, weddingID, questionID uuid.UUID) (*types.Question, error) {
	rows, err := qs.questionRepo.GetByIDs(dbc, weddingID, []uuid.UUID{questionID})
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFoundf("question %s", questionID)
	}
	return rows[0], nil
}

// cleanOptions trims and dedupes options and checks them against the kind.
func cleanOptions(kind string, raw []string) (datatypes.JSON, error) {
	if !rsvp.ValidKind(kind) {
		return nil, invalidArgf("kind must be text, single_choice or multi_choice")
	}
	seen := make(map[string]bool, len(raw))
	opts := make([]string, 0, len(raw))
	for _, o := range raw {
		o = normalize.Text(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		opts = append(opts, o)
	}
	if rsvp.IsChoiceKind(kind) {
		if len(opts) < 2 {
			return nil, invalidArgf("%s questions need at least 2 distinct options", kind)
		}
	} else if len(opts) > 0 {
		return nil, invalidArgf("text questions cannot have options")
	}
	b, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return datatypes.JSON(b), nil
}
