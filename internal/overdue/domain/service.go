package domain

import "context"

type Service interface {
	Report(ctx context.Context) (Report, error)
}
