package services

import (
	"context"
	"net/url"
	"paywindow/entity"
)

type Payments interface {
	CreateWindow(ctx context.Context, order *entity.WindowOrder) (*entity.WindowResponse, error)
	Callback(ctx context.Context, values url.Values, remoteAddr string) (*entity.CallbackRecord, error)
}
