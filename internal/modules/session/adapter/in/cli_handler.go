package in

import (
	"context"

	sessiondto "deskpulse/internal/modules/session/dto"
	sessionin "deskpulse/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) TogglePause(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.TogglePause(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (sessiondto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Tick(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	return h.usecase.Recent(ctx, limit)
}

func (h CLIHandler) Today(ctx context.Context) (sessiondto.TodayOutput, error) {
	return h.usecase.Today(ctx)
}
