package biz

import (
	"log/slog"

	"github.com/tgsilent/silentdelete/internal/biz/repo"
	"github.com/tgsilent/silentdelete/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Login  *usecase.LoginUsecase
	Rules  *usecase.RuleUsecase
	Engine *usecase.EngineUsecase
}

// NewUsecases wires the usecase layer from its repositories.
func NewUsecases(factory repo.MessengerFactory, rules repo.RuleRepo, history repo.HistoryRepo, deleteEnabled bool, log *slog.Logger) *Usecases {
	return &Usecases{
		Login:  usecase.NewLoginUsecase(factory, log),
		Rules:  usecase.NewRuleUsecase(rules),
		Engine: usecase.NewEngineUsecase(rules, history, deleteEnabled, log),
	}
}
