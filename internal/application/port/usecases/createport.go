package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/orris-inc/berth/internal/domain/allocation"
	"github.com/orris-inc/berth/internal/domain/port"
	"github.com/orris-inc/berth/internal/shared/db"
	apperrors "github.com/orris-inc/berth/internal/shared/errors"
	"github.com/orris-inc/berth/internal/shared/logger"
	"github.com/orris-inc/berth/internal/shared/utils"
)

type CreatePortCommand struct {
	InstanceURL string
	Name        string
	Region      string
	OperatorID  uint
}

// CreatePortUseCase registers a new port in the pool. The port row and its
// CREATE audit entry commit in one transaction.
type CreatePortUseCase struct {
	portRepo port.Repository
	logRepo  allocation.LogRepository
	txMgr    *db.TransactionManager
	logger   logger.Interface
}

func NewCreatePortUseCase(
	portRepo port.Repository,
	logRepo allocation.LogRepository,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *CreatePortUseCase {
	return &CreatePortUseCase{
		portRepo: portRepo,
		logRepo:  logRepo,
		txMgr:    txMgr,
		logger:   logger,
	}
}

func (uc *CreatePortUseCase) Execute(ctx context.Context, cmd CreatePortCommand) (*port.Port, error) {
	if err := utils.ValidateInstanceURL(cmd.InstanceURL); err != nil {
		return nil, err
	}

	p, err := port.NewPort(cmd.InstanceURL, cmd.Name, cmd.Region)
	if err != nil {
		uc.logger.Warnw("invalid port parameters", "error", err, "instance_url", cmd.InstanceURL)
		return nil, apperrors.NewValidationError(err.Error())
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.portRepo.Create(txCtx, p); err != nil {
			if errors.Is(err, port.ErrInstanceURLExists) {
				uc.logger.Warnw("instance URL already registered", "instance_url", cmd.InstanceURL)
				return apperrors.NewConflictError("instance URL already registered")
			}
			uc.logger.Errorw("failed to create port", "error", err, "instance_url", cmd.InstanceURL)
			return fmt.Errorf("failed to create port: %w", err)
		}

		var performedBy *uint
		if cmd.OperatorID != 0 {
			performedBy = &cmd.OperatorID
		}
		entry, err := allocation.NewCreateEntry(p.ID(), performedBy)
		if err != nil {
			return fmt.Errorf("failed to build allocation log entry: %w", err)
		}
		if err := uc.logRepo.Append(txCtx, entry); err != nil {
			uc.logger.Errorw("failed to append allocation log", "error", err, "port_id", p.ID())
			return fmt.Errorf("failed to append allocation log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("port created", "port_id", p.ID(), "port_sid", p.SID(), "instance_url", p.InstanceURL())
	return p, nil
}
