package services

import (
	"context"
	"paywindow/entity"
)

type Database interface {
	WriteLogMessage(ctx context.Context, data Data) error

	SaveWindow(ctx context.Context, record *entity.WindowRecord) error
	GetWindow(ctx context.Context, reference string) (*entity.WindowRecord, error)
	SaveCallback(ctx context.Context, record *entity.CallbackRecord) error
}

type Data interface {
	DataType() string
}
