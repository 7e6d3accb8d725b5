package retrypolicy

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy описывает переиспользуемую политику повторов: максимум попыток
// и линейный backoff (baseDelay × номер попытки). Все вызывающие стороны
// делят одну и ту же семантику повторов вместо дублирования циклов.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
}

// New creates a retry policy.
// maxAttempts is the total number of attempts (not retries), minimum 1.
func New(maxAttempts int, baseDelay time.Duration) Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return Policy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// Do выполняет op последовательно до maxAttempts раз.
// Каждая следующая попытка ждет завершения предыдущей: между попытками
// пауза baseDelay × номер_попытки (1×, 2×, ...). Возвращается ошибка
// последней попытки.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempt := 0
	backoff := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return p.baseDelay * time.Duration(attempt), false
	})

	return retry.Do(ctx, retry.WithMaxRetries(uint64(p.maxAttempts-1), backoff),
		func(ctx context.Context) error {
			if err := op(ctx); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
}

// MaxAttempts возвращает сконфигурированное число попыток
func (p Policy) MaxAttempts() int {
	return p.maxAttempts
}
