package generator

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized  = errors.New("generator: unauthorized")
	ErrEmptyResponse = errors.New("generator: empty response")
	ErrBlocked       = errors.New("generator: prompt blocked")
)

// Provider возвращает сырой текст модели на промпт
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc позволяет использовать функцию как Provider
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

func (f ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
